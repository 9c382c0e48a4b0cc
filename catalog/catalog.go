// Package catalog stores table schemas, persisting every column type in
// its binary encoding.
package catalog

import (
	"encoding/base64"
	"io"
	"os"
	"sync"

	"github.com/Masterminds/semver"
	"github.com/google/btree"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/typecodec"
)

var ErrNotFound = errors.New("catalog: table not found")

// FormatVersion is written to saved catalogs. Loading accepts any 1.x file.
const FormatVersion = "1.0.0"

var supportedVersions = func() *semver.Constraints {
	c, err := semver.NewConstraint("^1")
	if err != nil {
		panic(err)
	}
	return c
}()

type Column struct {
	Name string
	Type datatype.Type
}

type Table struct {
	Name    string
	Columns []Column
}

// RowType is the named tuple of the table's columns.
func (t Table) RowType() datatype.Type {
	fields := make([]datatype.NamedField, len(t.Columns))
	for i, c := range t.Columns {
		fields[i] = datatype.NamedField{Name: c.Name, Type: c.Type}
	}
	return datatype.NewNamedTuple(fields...)
}

type tableItem struct {
	table Table
}

func (i *tableItem) Less(than btree.Item) bool {
	return i.table.Name < than.(*tableItem).table.Name
}

// Catalog is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	tree    *btree.BTree
	decoder typecodec.Decoder
}

func New(decoder typecodec.Decoder) *Catalog {
	return &Catalog{
		tree:    btree.New(2),
		decoder: decoder,
	}
}

// Put inserts or replaces a table.
func (c *Catalog) Put(table Table) error {
	if table.Name == "" {
		return errors.New("catalog: table name can't be empty")
	}
	for _, column := range table.Columns {
		if _, err := typecodec.Encode(column.Type); err != nil {
			return errors.Wrapf(err, "couldn't encode type of column %s", column.Name)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree.ReplaceOrInsert(&tableItem{table: table})
	return nil
}

func (c *Catalog) Get(name string) (Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item := c.tree.Get(&tableItem{table: Table{Name: name}})
	if item == nil {
		return Table{}, errors.Wrap(ErrNotFound, name)
	}
	return item.(*tableItem).table, nil
}

func (c *Catalog) Delete(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tree.Delete(&tableItem{table: Table{Name: name}}) == nil {
		return errors.Wrap(ErrNotFound, name)
	}
	return nil
}

// List returns all tables ordered by name.
func (c *Catalog) List() []Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Table, 0, c.tree.Len())
	c.tree.Ascend(func(item btree.Item) bool {
		out = append(out, item.(*tableItem).table)
		return true
	})
	return out
}

type fileFormat struct {
	Version string        `yaml:"version"`
	Tables  []tableFormat `yaml:"tables"`
}

type tableFormat struct {
	Name    string         `yaml:"name"`
	Columns []columnFormat `yaml:"columns"`
}

type columnFormat struct {
	Name string `yaml:"name"`
	// Type is the base64 binary encoding, TypeName is informational.
	Type     string `yaml:"type"`
	TypeName string `yaml:"typeName,omitempty"`
}

func (c *Catalog) Save(w io.Writer) error {
	file := fileFormat{Version: FormatVersion}
	for _, table := range c.List() {
		tf := tableFormat{Name: table.Name}
		for _, column := range table.Columns {
			data, err := typecodec.Encode(column.Type)
			if err != nil {
				return errors.Wrapf(err, "couldn't encode column %s.%s", table.Name, column.Name)
			}
			tf.Columns = append(tf.Columns, columnFormat{
				Name:     column.Name,
				Type:     base64.StdEncoding.EncodeToString(data),
				TypeName: column.Type.String(),
			})
		}
		file.Tables = append(file.Tables, tf)
	}
	encoder := yaml.NewEncoder(w)
	if err := encoder.Encode(&file); err != nil {
		return errors.Wrap(err, "couldn't encode yaml catalog")
	}
	return encoder.Close()
}

// Load adds the tables read from r, replacing tables with the same names.
// Nothing is added if any column fails to decode.
func (c *Catalog) Load(r io.Reader) error {
	var file fileFormat
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrap(err, "couldn't decode yaml catalog")
	}
	version, err := semver.NewVersion(file.Version)
	if err != nil {
		return errors.Wrapf(err, "invalid catalog version '%s'", file.Version)
	}
	if !supportedVersions.Check(version) {
		return errors.Errorf("unsupported catalog version %s", version)
	}

	tables := make([]Table, 0, len(file.Tables))
	for _, tf := range file.Tables {
		table := Table{Name: tf.Name}
		for _, cf := range tf.Columns {
			data, err := base64.StdEncoding.DecodeString(cf.Type)
			if err != nil {
				return errors.Wrapf(err, "invalid base64 in column %s.%s", tf.Name, cf.Name)
			}
			t, err := c.decoder.Decode(data)
			if err != nil {
				return errors.Wrapf(err, "couldn't decode type of column %s.%s", tf.Name, cf.Name)
			}
			table.Columns = append(table.Columns, Column{Name: cf.Name, Type: t})
		}
		tables = append(tables, table)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, table := range tables {
		c.tree.ReplaceOrInsert(&tableItem{table: table})
	}
	return nil
}

func (c *Catalog) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "couldn't create catalog file")
	}
	if err := c.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads path, a missing file is an empty catalog.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "couldn't open catalog file")
	}
	defer f.Close()
	return c.Load(f)
}
