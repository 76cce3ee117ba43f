// Package sqlstore implementa los repositorios sobre database/sql. Los
// adapters pg y sqlite aportan la conexión y un Dialect; las queries son las
// mismas y se escriben con placeholders $N.
package sqlstore

import (
	"database/sql"
	"io/fs"
	"regexp"

	"github.com/pressly/goose/v3"
)

// Dialect captura lo que cambia entre motores.
type Dialect struct {
	Name  string
	Goose goose.Dialect

	// Migrations es el FS con los .sql de goose en la raíz.
	Migrations fs.FS

	// TxOptions para la transacción de registro; nil usa el default del driver.
	TxOptions *sql.TxOptions

	// NumberedQuestion reescribe $N como ?N (sqlite).
	NumberedQuestion bool

	IsUniqueViolation func(error) bool
}

var dollarParam = regexp.MustCompile(`\$(\d+)`)

// Rebind adapta una query escrita con $N al dialecto.
func (d Dialect) Rebind(q string) string {
	if !d.NumberedQuestion {
		return q
	}
	return dollarParam.ReplaceAllString(q, "?$1")
}

func (d Dialect) uniqueViolation(err error) bool {
	return err != nil && d.IsUniqueViolation != nil && d.IsUniqueViolation(err)
}
