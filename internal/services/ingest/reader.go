package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"log"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReadRows pulls the whole sheet into loose key/value rows for the
// conversion pipeline. One deposit is one sheet, so unlike a bulk import
// there is no batching: the declaration is validated as a whole anyway.
// Format detection tries the filename extension, then the content type,
// then falls back to sniffing XLSX before CSV.
func ReadRows(r io.Reader, filePath, contentType string) ([]map[string]string, string, error) {
	// buffered up front so a failed first attempt can rewind; deposit
	// sheets are small
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	switch detectFormat(filePath, contentType) {
	case "xlsx":
		rows, err := readXLSXFirstSheet(bytes.NewReader(data))
		return rows, "xlsx", err
	case "csv":
		rows, err := readCSV(bytes.NewReader(data))
		return rows, "csv", err
	default:
		log.Printf("[INGEST] unknown format, try XLSX then CSV")
		if rows, err := readXLSXFirstSheet(bytes.NewReader(data)); err == nil {
			return rows, "xlsx", nil
		}
		rows, err := readCSV(bytes.NewReader(data))
		return rows, "csv", err
	}
}

func readXLSXFirstSheet(r io.Reader) ([]map[string]string, error) {
	start := time.Now()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}
	sheet := sheets[0]
	log.Printf("[INGEST][XLSX] first_sheet=%q", sheet)

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if rows.Error() != nil {
			return nil, rows.Error()
		}
		return nil, nil
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	log.Printf("[INGEST][XLSX] header=%v", header)

	out := make([]map[string]string, 0)
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			log.Printf("[INGEST][XLSX][WARN] read row err: %v", err)
			continue
		}
		out = append(out, toMap(header, cols))
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	log.Printf("[INGEST][XLSX][DONE] rows=%d duration=%s", len(out), time.Since(start))
	return out, nil
}

func readCSV(r io.Reader) ([]map[string]string, error) {
	start := time.Now()
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	log.Printf("[INGEST][CSV] header=%v", header)

	out := make([]map[string]string, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[INGEST][CSV][WARN] read row err: %v", err)
			continue
		}
		out = append(out, toMap(header, record))
	}
	log.Printf("[INGEST][CSV][DONE] rows=%d duration=%s", len(out), time.Since(start))
	return out, nil
}

func toMap(header []string, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, key := range header {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return m
}

func detectFormat(filePath, contentType string) string {
	p := filePath
	if u, err := url.Parse(filePath); err == nil && u != nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	switch ext {
	case "xlsx":
		return "xlsx"
	case "csv":
		return "csv"
	}
	med, _, _ := mime.ParseMediaType(contentType)
	switch med {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel":
		return "xlsx"
	case "text/csv", "application/csv", "text/plain":
		return "csv"
	}
	return ""
}
