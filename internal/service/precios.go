package service

import "github.com/shopspring/decimal"

// PoliticaPrecios decides when a priced edit needs an administrator's review.
// Thresholds come from configuration so finance can tune them without a code
// change. Comparisons are strict: a cash price of exactly UmbralEfectivo does
// not trigger review.
type PoliticaPrecios struct {
	UmbralEfectivo      decimal.Decimal
	UmbralTransferencia decimal.Decimal
}

func (p PoliticaPrecios) RequiereRevisionAdmin(precio decimal.Decimal, esEfectivo bool) bool {
	if esEfectivo {
		return precio.GreaterThan(p.UmbralEfectivo)
	}
	return precio.GreaterThan(p.UmbralTransferencia)
}
