package repositories

import (
	"database/sql"
	"errors"

	"carbooking/internal/db"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"

	"github.com/shopspring/decimal"
)

type TaxRepository struct {
	DB *sql.DB
}

func (r TaxRepository) q(x db.DBTX) db.DBTX {
	if x != nil {
		return x
	}
	return r.DB
}

func (r TaxRepository) GetByID(x db.DBTX, id int64) (models.TaxRate, error) {
	var t models.TaxRate
	err := r.q(x).QueryRow(`SELECT id, name, rate_percent FROM taxes WHERE id=?`, id).
		Scan(&t.ID, &t.Name, &t.RatePercent)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TaxRate{}, domain.NotFoundError{Resource: "tax"}
	}
	if err != nil {
		return models.TaxRate{}, err
	}
	return t, nil
}

func (r TaxRepository) List(x db.DBTX) ([]models.TaxRate, error) {
	rows, err := r.q(x).Query(`SELECT id, name, rate_percent FROM taxes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.TaxRate{}
	for rows.Next() {
		var t models.TaxRate
		if err := rows.Scan(&t.ID, &t.Name, &t.RatePercent); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r TaxRepository) Create(x db.DBTX, name string, rate decimal.Decimal) (int64, error) {
	res, err := r.q(x).Exec(`INSERT INTO taxes (name, rate_percent) VALUES (?, ?)`, name, rate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RateResolver loads all tax rates once and returns a lookup for the
// aggregator. A dangling id resolves to ok=false instead of failing the
// aggregation.
func (r TaxRepository) RateResolver(x db.DBTX) (func(int64) (decimal.Decimal, bool), error) {
	taxes, err := r.List(x)
	if err != nil {
		return nil, err
	}
	rates := make(map[int64]decimal.Decimal, len(taxes))
	for _, t := range taxes {
		rates[t.ID] = t.RatePercent
	}
	return func(id int64) (decimal.Decimal, bool) {
		rate, ok := rates[id]
		return rate, ok
	}, nil
}
