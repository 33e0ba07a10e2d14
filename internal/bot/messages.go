package bot

import (
	"fmt"
	"strconv"
)

// Buyer-facing texts. FunPay's audience is Russian-speaking, so these stay in
// Russian like the rest of the storefront.

func msgNoQuantity() string {
	return "⚠️ В заказе не указано количество очков. Оформите, пожалуйста, заказ с выбором количества."
}

func msgInvalidQuantity(points, minPoints int) string {
	return fmt.Sprintf(
		"⚠️ Некорректное количество очков: %s. Минимум — %s и кратно 100 (например: 100, 500, 1000).",
		humanPoints(points), humanPoints(minPoints),
	)
}

func msgNoProfileLink() string {
	return "⚠️ В заказе нет корректной ссылки на профиль Steam.\n" +
		"Пример: https://steamcommunity.com/id/ваш_id или https://steamcommunity.com/profiles/7656119..."
}

func msgDelivered(points int, link string) string {
	return fmt.Sprintf(
		"🎉 Готово! Пополнение на %s очков отправлено.\nПрофиль: %s\n\n"+
			"Проверьте зачисление и подтвердите выполнение заказа на FunPay.",
		humanPoints(points), link,
	)
}

func msgDeliveryFailed(err error) string {
	return "❌ Не удалось оформить пополнение очков.\nПричина: " + err.Error()
}

func msgAutoRefundSuffix() string {
	return "\n\n🔁 Оформляю возврат средств…"
}

func msgManualRefundSuffix() string {
	return "\n\n⚠️ Авто-возврат отключён, напишите продавцу для возврата."
}

func msgRefunded() string {
	return "✅ Средства возвращены. Можно оформить заказ повторно позже."
}

func msgRefundFailed() string {
	return "❌ Не удалось выполнить автоматический возврат. Свяжитесь с продавцом."
}

// humanPoints renders 12345 as "12 345".
func humanPoints(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
