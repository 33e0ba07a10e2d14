package funpay

import (
	"sort"
	"strconv"
	"strings"
)

// Order is a marketplace purchase as FunPay reports it. BuyerParams holds the
// option fields the buyer filled in at checkout, keyed by option label.
type Order struct {
	ID            string            `json:"id"`
	BuyerID       int64             `json:"buyer_id"`
	ChatID        int64             `json:"chat_id"`
	SubcategoryID int               `json:"subcategory_id"`
	Title         string            `json:"title"`
	Amount        int               `json:"amount"`
	BuyerParams   map[string]string `json:"buyer_params"`
}

// paramKeys returns the buyer param labels in sorted order, so repeated scans
// of the same order always resolve to the same field.
func (o *Order) paramKeys() []string {
	keys := make([]string, 0, len(o.BuyerParams))
	for k := range o.BuyerParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Points resolves the purchased quantity: the first positive integer among the
// buyer params wins, otherwise the order amount. Sellers configure the
// quantity either as an option field or as units bought, so both are checked.
func (o *Order) Points() (int, bool) {
	for _, k := range o.paramKeys() {
		n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(o.BuyerParams[k]), " ", ""))
		if err != nil {
			continue
		}
		if n > 0 {
			return n, true
		}
	}
	if o.Amount >= 1 {
		return o.Amount, true
	}
	return 0, false
}

// Param returns the first buyer param accepted by the given predicate.
func (o *Order) Param(accept func(string) bool) (string, bool) {
	for _, k := range o.paramKeys() {
		v := strings.TrimSpace(o.BuyerParams[k])
		if accept(v) {
			return v, true
		}
	}
	return "", false
}
