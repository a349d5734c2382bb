// pkg/dataset/dataset.go

// Package dataset holds the built-in sample database the engine runs
// against: six related tables with deliberate NULLs so that NULL
// semantics, joins, and index behavior have something real to show.
package dataset

import (
	"time"

	"sqlscope/pkg/types"
)

// Index describes one simulated index on a table column. Unique
// indexes model primary keys.
type Index struct {
	Name   string
	Column string
	Unique bool
}

// Table is one named table: ordered columns, rows, declared indexes.
type Table struct {
	Name    string
	Columns []string
	Rows    []*types.Row
	Indexes []Index
}

// ColumnValues returns the column's values in row order, including
// NULLs.
func (t *Table) ColumnValues(col string) []types.Value {
	out := make([]types.Value, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r.Value(col))
	}
	return out
}

// Dataset is a set of tables. Construct one with Sample; there is no
// global instance, so tests and callers stay independent.
type Dataset struct {
	tables map[string]*Table
	order  []string
}

// Table returns the named table, case-insensitively by convention of
// lowercase names.
func (d *Dataset) Table(name string) (*Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// Tables returns the table names in schema order.
func (d *Dataset) Tables() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Columns returns the named table's columns, nil for an unknown table.
func (d *Dataset) Columns(name string) []string {
	if t, ok := d.tables[name]; ok {
		return t.Columns
	}
	return nil
}

// Indexes returns the named table's indexes, nil for an unknown table.
func (d *Dataset) Indexes(name string) []Index {
	if t, ok := d.tables[name]; ok {
		return t.Indexes
	}
	return nil
}

// IndexOn returns the index covering the given column of a table.
func (d *Dataset) IndexOn(table, column string) (Index, bool) {
	for _, ix := range d.Indexes(table) {
		if ix.Column == column {
			return ix, true
		}
	}
	return Index{}, false
}

func (d *Dataset) add(t *Table) {
	d.tables[t.Name] = t
	d.order = append(d.order, t.Name)
}

// Value shorthands for the table literals below.
func iv(v int) types.Value             { return types.NewInt(int64(v)) }
func fv(v float64) types.Value         { return types.NewFloat(v) }
func sv(v string) types.Value          { return types.NewText(v) }
func bv(v bool) types.Value            { return types.NewBool(v) }
func nv() types.Value                  { return types.NewNull() }
func dv(y, m, d int) types.Value       { return types.Date(y, time.Month(m), d) }
func tv(y, m, d, h, n int) types.Value { return types.DateTime(y, time.Month(m), d, h, n) }

func makeRows(cols []string, data [][]types.Value) []*types.Row {
	rows := make([]*types.Row, 0, len(data))
	for _, vals := range data {
		r := types.NewRow()
		for i, c := range cols {
			r.Set(c, vals[i])
		}
		rows = append(rows, r)
	}
	return rows
}

// Sample builds the sample database. Every call returns a fresh copy.
func Sample() *Dataset {
	d := &Dataset{tables: make(map[string]*Table)}
	d.add(departments())
	d.add(employees())
	d.add(customers())
	d.add(products())
	d.add(orders())
	d.add(orderItems())
	return d
}

func departments() *Table {
	cols := []string{"id", "name", "budget", "location"}
	return &Table{
		Name:    "departments",
		Columns: cols,
		Rows: makeRows(cols, [][]types.Value{
			{iv(1), sv("Engineering"), fv(500000), sv("Building A, Floor 3")},
			{iv(2), sv("Sales"), fv(300000), sv("Building B, Floor 1")},
			{iv(3), sv("Marketing"), fv(200000), sv("Building B, Floor 2")},
			{iv(4), sv("HR"), fv(150000), nv()},
			{iv(5), sv("Finance"), fv(250000), sv("Building A, Floor 1")},
			{iv(6), sv("Research"), fv(400000), nv()}, // no employees yet
		}),
		Indexes: []Index{
			{Name: "PRIMARY", Column: "id", Unique: true},
		},
	}
}

func employees() *Table {
	cols := []string{"id", "name", "department_id", "manager_id", "salary", "hire_date", "email", "phone"}
	return &Table{
		Name:    "employees",
		Columns: cols,
		Rows: makeRows(cols, [][]types.Value{
			// Engineering, Eva is the VP.
			{iv(1), sv("Alice Chen"), iv(1), iv(5), fv(95000), dv(2020, 3, 15), sv("alice@company.com"), sv("555-0101")},
			{iv(2), sv("Bob Smith"), iv(1), iv(5), fv(85000), dv(2021, 6, 1), sv("bob@company.com"), sv("555-0102")},
			{iv(3), sv("Carol Davis"), iv(1), iv(5), fv(110000), dv(2019, 1, 10), sv("carol@company.com"), nv()},
			{iv(4), sv("David Lee"), iv(1), iv(3), fv(75000), dv(2022, 8, 20), sv("david@company.com"), sv("555-0104")},
			{iv(5), sv("Eva Martinez"), iv(1), nv(), fv(125000), dv(2018, 5, 5), sv("eva@company.com"), sv("555-0105")},
			// Sales, Ivy manages.
			{iv(6), sv("Frank Wilson"), iv(2), iv(9), fv(65000), dv(2021, 2, 14), sv("frank@company.com"), sv("555-0106")},
			{iv(7), sv("Grace Kim"), iv(2), iv(9), fv(72000), dv(2020, 11, 30), sv("grace@company.com"), sv("555-0107")},
			{iv(8), sv("Henry Brown"), iv(2), iv(9), fv(58000), dv(2022, 4, 18), nv(), sv("555-0108")},
			{iv(9), sv("Ivy Taylor"), iv(2), nv(), fv(80000), dv(2019, 9, 22), sv("ivy@company.com"), sv("555-0109")},
			{iv(10), sv("Jack Anderson"), iv(2), iv(9), fv(68000), dv(2021, 7, 7), sv("jack@company.com"), nv()},
			// Marketing, Maria manages.
			{iv(11), sv("Karen White"), iv(3), iv(13), fv(62000), dv(2020, 6, 12), sv("karen@company.com"), sv("555-0111")},
			{iv(12), sv("Leo Garcia"), iv(3), iv(13), fv(55000), dv(2022, 1, 25), sv("leo@company.com"), sv("555-0112")},
			{iv(13), sv("Maria Rodriguez"), iv(3), nv(), fv(70000), dv(2019, 4, 3), sv("maria@company.com"), sv("555-0113")},
			{iv(14), sv("Nathan Clark"), iv(3), iv(13), fv(48000), dv(2023, 2, 8), nv(), nv()}, // new hire, no contact info yet
			// HR, Olivia manages.
			{iv(15), sv("Olivia Moore"), iv(4), nv(), fv(52000), dv(2021, 10, 5), sv("olivia@company.com"), sv("555-0115")},
			{iv(16), sv("Peter Hall"), iv(4), iv(15), fv(58000), dv(2020, 8, 17), sv("peter@company.com"), sv("555-0116")},
			{iv(17), sv("Quinn Adams"), iv(4), iv(15), fv(45000), dv(2022, 12, 1), sv("quinn@company.com"), sv("555-0117")},
			// Finance, Tina manages.
			{iv(18), sv("Rachel Scott"), iv(5), iv(20), fv(78000), dv(2019, 7, 14), sv("rachel@company.com"), sv("555-0118")},
			{iv(19), sv("Sam Turner"), iv(5), iv(20), fv(85000), dv(2020, 3, 28), sv("sam@company.com"), sv("555-0119")},
			{iv(20), sv("Tina Phillips"), iv(5), nv(), fv(92000), dv(2018, 11, 9), sv("tina@company.com"), sv("555-0120")},
		}),
		Indexes: []Index{
			{Name: "PRIMARY", Column: "id", Unique: true},
			{Name: "idx_salary", Column: "salary"},
			{Name: "idx_department", Column: "department_id"},
			{Name: "idx_manager", Column: "manager_id"},
		},
	}
}

func customers() *Table {
	cols := []string{"id", "name", "email", "city", "country", "credit_limit", "created_at"}
	return &Table{
		Name:    "customers",
		Columns: cols,
		Rows: makeRows(cols, [][]types.Value{
			{iv(1), sv("Acme Corp"), sv("orders@acme.com"), sv("New York"), sv("USA"), fv(50000), tv(2022, 1, 15, 10, 30)},
			{iv(2), sv("TechStart Inc"), sv("purchasing@techstart.io"), sv("San Francisco"), sv("USA"), fv(25000), tv(2022, 3, 22, 14, 45)},
			{iv(3), sv("Global Trade Ltd"), sv("procurement@globaltrade.co.uk"), sv("London"), sv("UK"), fv(75000), tv(2021, 11, 8, 9, 0)},
			{iv(4), sv("DataDriven GmbH"), sv("einkauf@datadriven.de"), nv(), sv("Germany"), fv(30000), tv(2022, 6, 1, 11, 15)},
			{iv(5), sv("CloudNine Solutions"), sv("admin@cloudnine.com"), sv("Toronto"), sv("Canada"), nv(), tv(2023, 2, 14, 16, 30)},
			{iv(6), sv("StartUp Ventures"), sv("hello@startupventures.com"), sv("Austin"), sv("USA"), fv(10000), tv(2023, 5, 20, 8, 45)},
			{iv(7), sv("Enterprise Systems"), sv("orders@enterprise-sys.com"), nv(), sv("USA"), fv(100000), tv(2020, 8, 12, 13, 0)},
			{iv(8), sv("SmallBiz Co"), sv("contact@smallbiz.com"), sv("Chicago"), sv("USA"), nv(), tv(2023, 7, 1, 10, 0)},
			{iv(9), sv("Innovation Labs"), sv("procurement@innovlabs.com"), sv("Seattle"), sv("USA"), fv(45000), tv(2022, 9, 5, 15, 30)},
			{iv(10), sv("Mega Industries"), sv("purchasing@megaind.com"), sv("Detroit"), sv("USA"), fv(200000), tv(2019, 4, 18, 9, 30)},
		}),
		Indexes: []Index{
			{Name: "PRIMARY", Column: "id", Unique: true},
			{Name: "idx_country", Column: "country"},
		},
	}
}

func products() *Table {
	cols := []string{"id", "name", "category", "price", "stock_quantity", "weight", "is_active"}
	return &Table{
		Name:    "products",
		Columns: cols,
		Rows: makeRows(cols, [][]types.Value{
			// Digital products carry no weight.
			{iv(1), sv("Basic License"), sv("Software"), fv(299.99), iv(1000), nv(), bv(true)},
			{iv(2), sv("Professional License"), sv("Software"), fv(599.99), iv(500), nv(), bv(true)},
			{iv(3), sv("Enterprise License"), sv("Software"), fv(1499.99), iv(200), nv(), bv(true)},
			{iv(4), sv("Premium Add-on"), sv("Software"), fv(199.99), iv(800), nv(), bv(true)},
			{iv(5), sv("Support Package (1yr)"), sv("Service"), fv(499.99), iv(999), nv(), bv(true)},
			{iv(6), sv("USB Security Key"), sv("Hardware"), fv(49.99), iv(500), fv(0.05), bv(true)},
			{iv(7), sv("Hardware Token"), sv("Hardware"), fv(79.99), iv(300), fv(0.08), bv(true)},
			{iv(8), sv("Server Appliance"), sv("Hardware"), fv(2999.99), iv(50), fv(15.5), bv(true)},
			{iv(9), sv("Training Bundle"), sv("Training"), fv(999.99), iv(100), nv(), bv(true)},
			{iv(10), sv("Certification Exam"), sv("Training"), fv(299.99), iv(999), nv(), bv(true)},
			{iv(11), sv("Legacy Module"), sv("Software"), fv(199.99), iv(0), nv(), bv(false)},
			{iv(12), sv("Old Hardware Key"), sv("Hardware"), fv(29.99), iv(25), fv(0.03), bv(false)},
		}),
		Indexes: []Index{
			{Name: "PRIMARY", Column: "id", Unique: true},
			{Name: "idx_category", Column: "category"},
		},
	}
}

func orders() *Table {
	cols := []string{"id", "customer_id", "employee_id", "order_date", "shipped_date", "status", "notes"}
	return &Table{
		Name:    "orders",
		Columns: cols,
		Rows: makeRows(cols, [][]types.Value{
			{iv(1), iv(1), iv(6), dv(2023, 1, 15), dv(2023, 1, 18), sv("delivered"), nv()},
			{iv(2), iv(2), iv(7), dv(2023, 2, 20), dv(2023, 2, 25), sv("delivered"), sv("Rush order")},
			{iv(3), iv(1), iv(9), dv(2023, 3, 10), dv(2023, 3, 15), sv("delivered"), nv()},
			{iv(4), iv(3), iv(6), dv(2023, 3, 25), dv(2023, 4, 1), sv("delivered"), sv("International shipping")},
			{iv(5), iv(4), iv(10), dv(2023, 4, 5), dv(2023, 4, 8), sv("delivered"), nv()},
			{iv(6), iv(5), iv(8), dv(2023, 4, 18), dv(2023, 4, 22), sv("delivered"), nv()},
			{iv(7), iv(2), iv(7), dv(2023, 5, 8), dv(2023, 5, 12), sv("shipped"), nv()},
			{iv(8), iv(6), iv(9), dv(2023, 5, 22), nv(), sv("processing"), sv("Pending payment verification")},
			{iv(9), iv(7), iv(6), dv(2023, 6, 3), dv(2023, 6, 5), sv("delivered"), nv()},
			{iv(10), iv(1), iv(10), dv(2023, 6, 15), dv(2023, 6, 18), sv("delivered"), sv("Repeat customer discount applied")},
			{iv(11), iv(8), iv(7), dv(2023, 7, 1), nv(), sv("pending"), nv()},
			{iv(12), iv(9), iv(8), dv(2023, 7, 20), dv(2023, 7, 25), sv("shipped"), nv()},
			{iv(13), iv(10), iv(9), dv(2023, 8, 5), dv(2023, 8, 8), sv("delivered"), sv("VIP customer")},
			{iv(14), iv(3), iv(6), dv(2023, 8, 18), nv(), sv("cancelled"), sv("Customer requested cancellation")},
			{iv(15), iv(4), iv(10), dv(2023, 9, 2), nv(), sv("processing"), nv()},
		}),
		Indexes: []Index{
			{Name: "PRIMARY", Column: "id", Unique: true},
			{Name: "idx_customer", Column: "customer_id"},
			{Name: "idx_employee", Column: "employee_id"},
			{Name: "idx_status", Column: "status"},
		},
	}
}

func orderItems() *Table {
	cols := []string{"id", "order_id", "product_id", "quantity", "unit_price", "discount"}
	return &Table{
		Name:    "order_items",
		Columns: cols,
		Rows: makeRows(cols, [][]types.Value{
			{iv(1), iv(1), iv(3), iv(5), fv(1499.99), fv(0.10)},
			{iv(2), iv(1), iv(5), iv(5), fv(499.99), nv()},
			{iv(3), iv(2), iv(2), iv(10), fv(599.99), fv(0.05)},
			{iv(4), iv(2), iv(9), iv(2), fv(999.99), nv()},
			{iv(5), iv(3), iv(4), iv(5), fv(199.99), nv()},
			{iv(6), iv(4), iv(3), iv(20), fv(1499.99), fv(0.15)},
			{iv(7), iv(4), iv(8), iv(2), fv(2999.99), fv(0.10)},
			{iv(8), iv(4), iv(6), iv(100), fv(49.99), fv(0.20)},
			{iv(9), iv(5), iv(1), iv(25), fv(299.99), fv(0.05)},
			{iv(10), iv(5), iv(5), iv(10), fv(499.99), fv(0.05)},
			{iv(11), iv(6), iv(2), iv(5), fv(599.99), nv()},
			{iv(12), iv(7), iv(4), iv(10), fv(199.99), fv(0.10)},
			{iv(13), iv(7), iv(7), iv(20), fv(79.99), nv()},
			{iv(14), iv(8), iv(1), iv(5), fv(299.99), nv()},
			{iv(15), iv(9), iv(3), iv(50), fv(1499.99), fv(0.20)},
			{iv(16), iv(9), iv(5), iv(50), fv(499.99), fv(0.15)},
			{iv(17), iv(9), iv(8), iv(5), fv(2999.99), fv(0.10)},
			{iv(18), iv(10), iv(10), iv(10), fv(299.99), fv(0.10)},
			{iv(19), iv(11), iv(1), iv(3), fv(299.99), nv()},
			{iv(20), iv(12), iv(2), iv(15), fv(599.99), fv(0.10)},
			{iv(21), iv(12), iv(6), iv(50), fv(49.99), fv(0.05)},
			{iv(22), iv(13), iv(3), iv(100), fv(1499.99), fv(0.25)},
			{iv(23), iv(13), iv(8), iv(10), fv(2999.99), fv(0.15)},
			{iv(24), iv(13), iv(5), iv(100), fv(499.99), fv(0.20)},
			{iv(25), iv(14), iv(3), iv(5), fv(1499.99), nv()},
			{iv(26), iv(15), iv(4), iv(20), fv(199.99), fv(0.10)},
		}),
		Indexes: []Index{
			{Name: "PRIMARY", Column: "id", Unique: true},
			{Name: "idx_order", Column: "order_id"},
			{Name: "idx_product", Column: "product_id"},
		},
	}
}
