package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nimasrn/ledger/internal/model"
	"gorm.io/gorm"
)

// isForeignKeyViolation covers drivers whose errors gorm cannot translate.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

func foreignKeyError(clientID int64) error {
	return fmt.Errorf("%w: client %d does not exist", model.ErrForeignKey, clientID)
}
