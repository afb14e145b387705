package model

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Catalog 是训练数据表：列名 + 字符串行。约定最后一列是标签列（职位/课程/项目名）。
// 预测出的标签通过 FirstByLabel 找回完整的描述记录。
type Catalog struct {
	Columns []string
	Rows    [][]string
}

// NewCatalog 以列与行构造 Catalog，labelColumn 非空时会被移到最后一列。
func NewCatalog(columns []string, rows [][]string, labelColumn string) (*Catalog, error) {
	if len(columns) == 0 {
		return nil, errors.New("catalog: no columns")
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("catalog: row %d has %d fields, want %d", i, len(r), len(columns))
		}
	}
	c := &Catalog{Columns: columns, Rows: rows}
	if labelColumn == "" {
		return c, nil
	}
	idx := c.ColumnIndex(labelColumn)
	if idx < 0 {
		return nil, fmt.Errorf("catalog: label column %q not found", labelColumn)
	}
	return c.moveLast(idx), nil
}

// ReadCSV 读取带表头的 CSV，labelColumn 会被移到最后一列。
func ReadCSV(r io.Reader, labelColumn string) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalog: read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("catalog: empty csv")
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return NewCatalog(header, records[1:], labelColumn)
}

func (c *Catalog) moveLast(idx int) *Catalog {
	last := len(c.Columns) - 1
	if idx == last {
		return c
	}
	perm := make([]int, 0, len(c.Columns))
	for i := range c.Columns {
		if i != idx {
			perm = append(perm, i)
		}
	}
	perm = append(perm, idx)

	cols := make([]string, len(perm))
	for i, p := range perm {
		cols[i] = c.Columns[p]
	}
	rows := make([][]string, len(c.Rows))
	for ri, r := range c.Rows {
		nr := make([]string, len(perm))
		for i, p := range perm {
			nr[i] = r[p]
		}
		rows[ri] = nr
	}
	return &Catalog{Columns: cols, Rows: rows}
}

// LabelColumn 返回标签列名（最后一列）。
func (c *Catalog) LabelColumn() string {
	if len(c.Columns) == 0 {
		return ""
	}
	return c.Columns[len(c.Columns)-1]
}

// ColumnIndex 返回列下标，不存在返回 -1。
func (c *Catalog) ColumnIndex(name string) int {
	for i, col := range c.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column 返回某列的全部取值；缺失列返回 nil。
func (c *Catalog) Column(name string) []string {
	idx := c.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(c.Rows))
	for i, r := range c.Rows {
		out[i] = r[idx]
	}
	return out
}

// FirstByLabel 返回标签列等于 label 的第一行记录；找不到返回空记录。
func (c *Catalog) FirstByLabel(label string) map[string]string {
	last := len(c.Columns) - 1
	if last < 0 {
		return map[string]string{}
	}
	for _, r := range c.Rows {
		if r[last] == label {
			rec := make(map[string]string, len(c.Columns))
			for i, col := range c.Columns {
				rec[col] = r[i]
			}
			return rec
		}
	}
	return map[string]string{}
}

func (c *Catalog) Len() int { return len(c.Rows) }
