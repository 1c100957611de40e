package postgres

import (
	"context"
	"fmt"
)

// schema es idempotente. Los índices únicos parciales dejan reutilizar SKU, código de barras
// y nombres de registros archivados. El libro nunca se borra: la FK es RESTRICT.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      VARCHAR(50)  NOT NULL UNIQUE,
	email         VARCHAR(255) NOT NULL UNIQUE,
	password_hash TEXT         NOT NULL,
	role          VARCHAR(10)  NOT NULL DEFAULT 'staff' CHECK (role IN ('admin', 'staff')),
	status        VARCHAR(10)  NOT NULL DEFAULT 'active',
	created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS categories (
	id          UUID PRIMARY KEY,
	name        VARCHAR(100) NOT NULL,
	description TEXT,
	created_at  TIMESTAMPTZ  NOT NULL DEFAULT now(),
	archived_at TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS categories_name_active_uq ON categories (lower(name)) WHERE archived_at IS NULL;

CREATE TABLE IF NOT EXISTS suppliers (
	id          UUID PRIMARY KEY,
	name        VARCHAR(100) NOT NULL,
	contact     VARCHAR(15)  NOT NULL,
	email       VARCHAR(255),
	address     TEXT,
	created_at  TIMESTAMPTZ  NOT NULL DEFAULT now(),
	archived_at TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS suppliers_name_active_uq ON suppliers (lower(name)) WHERE archived_at IS NULL;

CREATE TABLE IF NOT EXISTS products (
	id          UUID PRIMARY KEY,
	name        VARCHAR(100)  NOT NULL,
	sku         VARCHAR(50)   NOT NULL,
	barcode     VARCHAR(13),
	price       NUMERIC(10,2) NOT NULL CHECK (price >= 0),
	quantity    INTEGER       NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	expiry_date DATE,
	category_id UUID          NOT NULL REFERENCES categories(id),
	supplier_id UUID          NOT NULL REFERENCES suppliers(id),
	created_at  TIMESTAMPTZ   NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ   NOT NULL DEFAULT now(),
	archived_at TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS products_sku_active_uq ON products (sku) WHERE archived_at IS NULL;
CREATE UNIQUE INDEX IF NOT EXISTS products_barcode_active_uq ON products (barcode) WHERE archived_at IS NULL AND barcode IS NOT NULL;
CREATE INDEX IF NOT EXISTS products_expiry_idx ON products (expiry_date) WHERE archived_at IS NULL;

CREATE TABLE IF NOT EXISTS stock_transactions (
	id         UUID PRIMARY KEY,
	product_id UUID        NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
	user_id    UUID        NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
	type       VARCHAR(3)  NOT NULL CHECK (type IN ('IN', 'OUT')),
	quantity   INTEGER     NOT NULL CHECK (quantity > 0),
	notes      TEXT,
	date       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS stock_transactions_date_idx ON stock_transactions (date DESC);
CREATE INDEX IF NOT EXISTS stock_transactions_product_idx ON stock_transactions (product_id, date DESC);
`

// Migrate crea las tablas e índices que falten.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
