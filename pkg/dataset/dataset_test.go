package dataset

import "testing"

func TestSample_TableShapes(t *testing.T) {
	d := Sample()
	want := map[string]int{
		"departments": 6,
		"employees":   20,
		"customers":   10,
		"products":    12,
		"orders":      15,
		"order_items": 26,
	}
	for name, rows := range want {
		tab, ok := d.Table(name)
		if !ok {
			t.Fatalf("missing table %s", name)
		}
		if len(tab.Rows) != rows {
			t.Errorf("%s: %d rows, want %d", name, len(tab.Rows), rows)
		}
		for i, r := range tab.Rows {
			if r.Len() != len(tab.Columns) {
				t.Errorf("%s row %d: %d columns, want %d", name, i, r.Len(), len(tab.Columns))
			}
		}
	}
	if len(d.Tables()) != len(want) {
		t.Errorf("tables = %v", d.Tables())
	}
}

func TestSample_RowColumnOrder(t *testing.T) {
	d := Sample()
	tab, _ := d.Table("employees")
	r := tab.Rows[0]
	for i, c := range tab.Columns {
		if r.Columns()[i] != c {
			t.Fatalf("row columns %v do not match table columns %v", r.Columns(), tab.Columns)
		}
	}
}

func TestSample_DeliberateNulls(t *testing.T) {
	d := Sample()

	emp, _ := d.Table("employees")
	nullManagers := 0
	for _, r := range emp.Rows {
		if r.Value("manager_id").IsNull() {
			nullManagers++
		}
	}
	if nullManagers != 5 {
		t.Errorf("NULL manager_id count = %d, want 5", nullManagers)
	}

	// Nathan Clark has neither email nor phone.
	nathan := emp.Rows[13]
	if nathan.Value("name").Text() != "Nathan Clark" {
		t.Fatalf("row 14 = %v", nathan.Value("name"))
	}
	if !nathan.Value("email").IsNull() || !nathan.Value("phone").IsNull() {
		t.Error("Nathan Clark should have NULL email and phone")
	}

	ord, _ := d.Table("orders")
	nullShipped := 0
	for _, r := range ord.Rows {
		if r.Value("shipped_date").IsNull() {
			nullShipped++
		}
	}
	if nullShipped != 4 {
		t.Errorf("NULL shipped_date count = %d, want 4", nullShipped)
	}
}

func TestSample_Indexes(t *testing.T) {
	d := Sample()
	for _, name := range d.Tables() {
		ixs := d.Indexes(name)
		if len(ixs) == 0 {
			t.Errorf("%s: no indexes", name)
			continue
		}
		if ixs[0].Name != "PRIMARY" || ixs[0].Column != "id" || !ixs[0].Unique {
			t.Errorf("%s: first index = %+v, want unique PRIMARY on id", name, ixs[0])
		}
	}
	if ix, ok := d.IndexOn("employees", "salary"); !ok || ix.Name != "idx_salary" {
		t.Errorf("IndexOn(employees, salary) = %+v, %v", ix, ok)
	}
	if _, ok := d.IndexOn("employees", "email"); ok {
		t.Error("unexpected index on employees.email")
	}
}

func TestSample_FreshCopies(t *testing.T) {
	a := Sample()
	b := Sample()
	ta, _ := a.Table("employees")
	tb, _ := b.Table("employees")
	ta.Rows[0].Set("name", ta.Rows[0].Value("salary"))
	if tb.Rows[0].Value("name").Text() != "Alice Chen" {
		t.Error("datasets share row storage")
	}
}

func TestColumnValues(t *testing.T) {
	d := Sample()
	tab, _ := d.Table("departments")
	vals := tab.ColumnValues("location")
	if len(vals) != 6 {
		t.Fatalf("len = %d", len(vals))
	}
	if !vals[3].IsNull() || !vals[5].IsNull() {
		t.Error("expected NULL locations for HR and Research")
	}
}

func TestUnknownTable(t *testing.T) {
	d := Sample()
	if _, ok := d.Table("nope"); ok {
		t.Error("found nonexistent table")
	}
	if d.Columns("nope") != nil || d.Indexes("nope") != nil {
		t.Error("metadata for nonexistent table")
	}
}
