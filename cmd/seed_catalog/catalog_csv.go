package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// catalogRow fila del CSV: area;nombre;precio. Precio vacío o 0 = ingrediente.
type catalogRow struct {
	Line      int
	Section   entity.Section
	Name      string
	UnitPrice decimal.Decimal
}

// decodeReader envuelve r según el charset del archivo (las hojas exportadas suelen venir en Latin-1).
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset %q no soportado", charset)
}

// parseCatalog lee el CSV separado por ';' o ','. La primera fila puede ser encabezado.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows []catalogRow
		line int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		line++
		if len(rec) == 1 && strings.Contains(rec[0], ",") {
			rec = strings.Split(rec[0], ",")
		}
		if len(rec) == 0 || strings.TrimSpace(strings.Join(rec, "")) == "" {
			continue
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan area;nombre;precio", line)
		}
		section, ok := entity.ParseSection(rec[0])
		if !ok {
			return nil, fmt.Errorf("línea %d: área %q inválida", line, rec[0])
		}
		name := strings.TrimSpace(rec[1])
		if name == "" {
			return nil, fmt.Errorf("línea %d: nombre vacío", line)
		}
		price := decimal.Zero
		if len(rec) > 2 && strings.TrimSpace(rec[2]) != "" {
			price, err = decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
			if err != nil || price.IsNegative() {
				return nil, fmt.Errorf("línea %d: precio %q inválido", line, rec[2])
			}
		}
		rows = append(rows, catalogRow{Line: line, Section: section, Name: name, UnitPrice: price})
	}
	return rows, nil
}

func isHeader(rec []string) bool {
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "area" || first == "área" || first == "section" || first == "seccion" || first == "sección"
}

// writeSQL genera un script idempotente para catalog_products.
func writeSQL(w io.Writer, rows []catalogRow) error {
	if _, err := fmt.Fprintf(w, "-- Catálogo inicial del IPV (%d productos)\n", len(rows)); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w,
			"INSERT INTO catalog_products (section, name, name_key, unit_price, active) VALUES ('%s', '%s', '%s', %s, TRUE)\n"+
				"ON CONFLICT (section, name_key) DO UPDATE SET unit_price = EXCLUDED.unit_price, name = EXCLUDED.name, updated_at = NOW();\n",
			r.Section, escapeSQL(r.Name), escapeSQL(strings.ToLower(r.Name)), r.UnitPrice.String())
		if err != nil {
			return err
		}
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
