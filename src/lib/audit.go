package lib

import (
	"log/slog"
	"reflect"

	"gorm.io/gorm"
)

// WriteAudit is a GORM plugin that logs every successful INSERT, UPDATE and DELETE
type WriteAudit struct {
	Logger *slog.Logger
}

// Name retorna el nombre del plugin
func (a *WriteAudit) Name() string {
	return "WriteAudit"
}

// Initialize registra los callbacks después de cada escritura
func (a *WriteAudit) Initialize(db *gorm.DB) error {
	if a.Logger == nil {
		a.Logger = slog.Default()
	}
	if err := db.Callback().Create().After("gorm:create").Register("audit:after_create", a.record("INSERT")); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("audit:after_update", a.record("UPDATE")); err != nil {
		return err
	}
	return db.Callback().Delete().After("gorm:delete").Register("audit:after_delete", a.record("DELETE"))
}

func (a *WriteAudit) record(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		// No registrar escrituras fallidas
		if db.Error != nil {
			return
		}

		statement := db.Statement
		if statement == nil || statement.Schema == nil {
			return
		}

		attrs := []any{
			"operation", operation,
			"table", statement.Schema.Table,
			"rows", db.RowsAffected,
		}

		if idField := statement.Schema.PrioritizedPrimaryField; idField != nil && statement.ReflectValue.Kind() == reflect.Struct {
			if value, isZero := idField.ValueOf(statement.Context, statement.ReflectValue); !isZero {
				attrs = append(attrs, "id", value)
			}
		}

		a.Logger.DebugContext(statement.Context, "db write", attrs...)
	}
}
