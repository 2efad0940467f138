package services

import (
	"gorm.io/gorm"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/models"
)

// findDuplicate reports whether the ledger already holds a row equal to txn
// on (utility, amount, complex, meter, date). A missing meter matches only
// rows without one.
func findDuplicate(db *gorm.DB, txn *models.Transaction) (bool, error) {
	meter := ""
	if txn.MeterNumber != nil {
		meter = *txn.MeterNumber
	}

	var ids []uint
	err := db.Model(&models.Transaction{}).
		Where("utility_type = ? AND amount = ? AND complex_id = ? AND COALESCE(meter_number, '') = ? AND date = ?",
			string(txn.UtilityType), txn.Amount, txn.ComplexID, meter, txn.Date).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(ids) > 0, nil
}
