package repositories

import (
	"database/sql"

	"carbooking/internal/db"
	"carbooking/internal/domain/models"
)

// CatalogRepository serves the small reference tables backing booking lines:
// service types, extra services and the vehicle fleet.
type CatalogRepository struct {
	DB *sql.DB
}

func (r CatalogRepository) q(x db.DBTX) db.DBTX {
	if x != nil {
		return x
	}
	return r.DB
}

func (r CatalogRepository) ListServiceTypes(x db.DBTX) ([]models.ServiceType, error) {
	rows, err := r.q(x).Query(`SELECT id, name FROM service_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.ServiceType{}
	for rows.Next() {
		var s models.ServiceType
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r CatalogRepository) CreateServiceType(x db.DBTX, name string) (int64, error) {
	res, err := r.q(x).Exec(`INSERT INTO service_types (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r CatalogRepository) ListExtraServices(x db.DBTX) ([]models.ExtraService, error) {
	rows, err := r.q(x).Query(`SELECT id, name FROM extra_services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.ExtraService{}
	for rows.Next() {
		var s models.ExtraService
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r CatalogRepository) CreateExtraService(x db.DBTX, name string) (int64, error) {
	res, err := r.q(x).Exec(`INSERT INTO extra_services (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r CatalogRepository) ListVehicles(x db.DBTX, search string) ([]models.Vehicle, error) {
	query := `SELECT id, vehicle_code, plate_number, model, year, rental_price FROM vehicles`
	args := []any{}
	if search != "" {
		query += ` WHERE vehicle_code LIKE ? OR plate_number LIKE ? OR model LIKE ?`
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.q(x).Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.VehicleCode, &v.PlateNumber, &v.Model, &v.Year, &v.RentalPrice); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r CatalogRepository) CreateVehicle(x db.DBTX, v models.Vehicle) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO vehicles (vehicle_code, plate_number, model, year, rental_price)
		VALUES (?, ?, ?, ?, ?)`,
		v.VehicleCode, v.PlateNumber, v.Model, v.Year, v.RentalPrice)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
