package db

import "database/sql"

// EnsureSchema creates any missing tables at startup. Statements are
// idempotent so repeated boots are safe.
func EnsureSchema(database *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(100) NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_users_email (email),
			UNIQUE KEY uniq_users_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS taxes (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			rate_percent DECIMAL(8,4) NOT NULL DEFAULT 0
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS service_types (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS extra_services (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vehicle_code VARCHAR(100) NOT NULL,
			plate_number VARCHAR(100) NOT NULL,
			model VARCHAR(255) NOT NULL DEFAULT '',
			year VARCHAR(10) NOT NULL DEFAULT '',
			rental_price DECIMAL(12,2) NOT NULL DEFAULT 0,
			UNIQUE KEY uniq_vehicle_code (vehicle_code)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS booking_sequences (
			code VARCHAR(100) PRIMARY KEY,
			prefix VARCHAR(20) NOT NULL,
			next_number BIGINT NOT NULL DEFAULT 1
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			reference VARCHAR(50) NOT NULL DEFAULT '',
			booking_type VARCHAR(50) NOT NULL DEFAULT '',
			state VARCHAR(50) NOT NULL DEFAULT 'draft',
			reservation_status VARCHAR(50) NOT NULL DEFAULT 'created',
			customer_id BIGINT NOT NULL DEFAULT 0,
			customer_name VARCHAR(255) NOT NULL DEFAULT '',
			mobile VARCHAR(100) NOT NULL DEFAULT '',
			guest_name VARCHAR(255) NOT NULL DEFAULT '',
			guest_phone VARCHAR(100) NOT NULL DEFAULT '',
			booking_date DATETIME NULL,
			date_of_service DATETIME NULL,
			notes TEXT NULL,
			misc_charges DECIMAL(12,2) NOT NULL DEFAULT 0,
			untaxed_total DECIMAL(12,2) NOT NULL DEFAULT 0,
			vat DECIMAL(12,2) NOT NULL DEFAULT 0,
			grand_total DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_tax DECIMAL(12,2) NOT NULL DEFAULT 0,
			extra_hour_total BIGINT NOT NULL DEFAULT 0,
			extra_hour_charges_total DECIMAL(12,2) NOT NULL DEFAULT 0,
			quotation_id BIGINT NOT NULL DEFAULT 0,
			invoice_id BIGINT NOT NULL DEFAULT 0,
			trip_profile_id BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_booking_reference (reference),
			KEY idx_booking_state (state)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS booking_lines (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			service_type_id BIGINT NOT NULL DEFAULT 0,
			product_id BIGINT NOT NULL DEFAULT 0,
			car_model VARCHAR(255) NOT NULL DEFAULT '',
			qty BIGINT NOT NULL DEFAULT 1,
			unit_price DECIMAL(12,2) NOT NULL DEFAULT 0,
			start_date DATETIME NULL,
			end_date DATETIME NULL,
			duration_days DECIMAL(8,2) NOT NULL DEFAULT 0,
			extra_hours BIGINT NOT NULL DEFAULT 0,
			extra_hour_rate DECIMAL(12,2) NOT NULL DEFAULT 0,
			tax_ids VARCHAR(255) NOT NULL DEFAULT '',
			driver_name VARCHAR(255) NOT NULL DEFAULT '',
			driver_mobile VARCHAR(100) NOT NULL DEFAULT '',
			driver_id_no VARCHAR(100) NOT NULL DEFAULT '',
			subtotal DECIMAL(12,2) NOT NULL DEFAULT 0,
			KEY idx_booking_lines_booking (booking_id),
			CONSTRAINT fk_booking_lines_booking FOREIGN KEY (booking_id)
				REFERENCES bookings(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS sales_orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT NOT NULL DEFAULT 0,
			customer_id BIGINT NOT NULL DEFAULT 0,
			order_date DATETIME NULL,
			validity_date DATETIME NULL,
			note TEXT NULL,
			amount_untaxed DECIMAL(12,2) NOT NULL DEFAULT 0,
			amount_tax DECIMAL(12,2) NOT NULL DEFAULT 0,
			amount_total DECIMAL(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_sales_orders_booking (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS order_lines (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			booking_line_id BIGINT NOT NULL DEFAULT 0,
			name VARCHAR(255) NOT NULL DEFAULT '',
			product_id BIGINT NOT NULL DEFAULT 0,
			service_type_id BIGINT NOT NULL DEFAULT 0,
			car_model VARCHAR(255) NOT NULL DEFAULT '',
			qty BIGINT NOT NULL DEFAULT 1,
			unit_price DECIMAL(12,2) NOT NULL DEFAULT 0,
			date_start DATETIME NULL,
			date_end DATETIME NULL,
			duration_days DECIMAL(8,2) NOT NULL DEFAULT 0,
			additional_charges DECIMAL(12,2) NOT NULL DEFAULT 0,
			discount_percent DECIMAL(8,4) NOT NULL DEFAULT 0,
			tax_ids VARCHAR(255) NOT NULL DEFAULT '',
			subtotal DECIMAL(12,2) NOT NULL DEFAULT 0,
			tax DECIMAL(12,2) NOT NULL DEFAULT 0,
			total DECIMAL(12,2) NOT NULL DEFAULT 0,
			KEY idx_order_lines_order (order_id),
			CONSTRAINT fk_order_lines_order FOREIGN KEY (order_id)
				REFERENCES sales_orders(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT NOT NULL DEFAULT 0,
			customer_id BIGINT NOT NULL DEFAULT 0,
			invoice_date DATETIME NULL,
			amount_untaxed DECIMAL(12,2) NOT NULL DEFAULT 0,
			amount_tax DECIMAL(12,2) NOT NULL DEFAULT 0,
			amount_total DECIMAL(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_invoices_booking (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS invoice_lines (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			invoice_id BIGINT NOT NULL,
			booking_line_id BIGINT NOT NULL DEFAULT 0,
			name VARCHAR(255) NOT NULL DEFAULT '',
			product_id BIGINT NOT NULL DEFAULT 0,
			service_type_id BIGINT NOT NULL DEFAULT 0,
			car_model VARCHAR(255) NOT NULL DEFAULT '',
			qty BIGINT NOT NULL DEFAULT 1,
			unit_price DECIMAL(12,2) NOT NULL DEFAULT 0,
			date_start DATETIME NULL,
			date_end DATETIME NULL,
			duration_days DECIMAL(8,2) NOT NULL DEFAULT 0,
			additional_charges DECIMAL(12,2) NOT NULL DEFAULT 0,
			discount_percent DECIMAL(8,4) NOT NULL DEFAULT 0,
			tax_ids VARCHAR(255) NOT NULL DEFAULT '',
			subtotal DECIMAL(12,2) NOT NULL DEFAULT 0,
			tax DECIMAL(12,2) NOT NULL DEFAULT 0,
			total DECIMAL(12,2) NOT NULL DEFAULT 0,
			KEY idx_invoice_lines_invoice (invoice_id),
			CONSTRAINT fk_invoice_lines_invoice FOREIGN KEY (invoice_id)
				REFERENCES invoices(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS trip_profiles (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT NOT NULL DEFAULT 0,
			reference VARCHAR(50) NOT NULL DEFAULT '',
			customer_id BIGINT NOT NULL DEFAULT 0,
			customer_name VARCHAR(255) NOT NULL DEFAULT '',
			start_date DATETIME NULL,
			end_date DATETIME NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_trip_profiles_booking (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS trip_vehicle_lines (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			trip_profile_id BIGINT NOT NULL,
			booking_line_id BIGINT NOT NULL DEFAULT 0,
			car_model VARCHAR(255) NOT NULL DEFAULT '',
			service_type_id BIGINT NOT NULL DEFAULT 0,
			driver_name VARCHAR(255) NOT NULL DEFAULT '',
			driver_mobile VARCHAR(100) NOT NULL DEFAULT '',
			KEY idx_trip_vehicle_lines_profile (trip_profile_id),
			CONSTRAINT fk_trip_vehicle_lines_profile FOREIGN KEY (trip_profile_id)
				REFERENCES trip_profiles(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	}

	for _, stmt := range ddl {
		if _, err := database.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
