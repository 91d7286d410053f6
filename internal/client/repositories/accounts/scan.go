package accounts

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivebuddy/internal/client/models"
	"github.com/dmitrijs2005/drivebuddy/internal/common"
)

func scanAccount(row *sql.Row, op string) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.AddToCalendar, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return a, nil
}

func checkUpdated(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
