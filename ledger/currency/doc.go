// Package currency provides Issuance, the default ledger.Currency capability.
//
// Issuance keeps the total supply of minted units: deposits mint new units into the supply and
// withdrawals burn them again. It never lets the supply overflow or go below zero.
package currency
