package infra

import (
	"fmt"

	"simplesales/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseOptions tunes the connection pool.
type DatabaseOptions struct {
	MaxOpenConns int
	MaxIdleConns int
}

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (expression indexes).
func NewDatabase(dsn string, opts DatabaseOptions) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 25
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema. Integration tests call it directly on a
// container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.Cliente{},
		&model.Produto{},
		&model.Venda{},
		&model.ItemVenda{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that AutoMigrate cannot
// express. Each statement is guarded so re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Categoria names are unique regardless of case.
		{"uni_categorias_nome", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_categorias_nome ON categorias (lower(nome))`},
		// Cliente emails are stored lower-cased; the index guards writers that skip the service.
		{"uni_clientes_email lower", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_clientes_email_lower') THEN
    CREATE UNIQUE INDEX uni_clientes_email_lower ON clientes (lower(email));
  END IF;
END $$`},
		{"chk_produtos_estoque_nao_negativo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_produtos_estoque_nao_negativo') THEN
    ALTER TABLE produtos ADD CONSTRAINT chk_produtos_estoque_nao_negativo CHECK (estoque_atual >= 0);
  END IF;
END $$`},
		{"chk_itens_venda_quantidade", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_itens_venda_quantidade') THEN
    ALTER TABLE itens_venda ADD CONSTRAINT chk_itens_venda_quantidade CHECK (quantidade > 0 AND quantidade <= 1000);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
