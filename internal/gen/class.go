// Package gen emits artifacts from a model: Go row types for every entity and
// SQLite DDL for the whole model.
package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// ErrFileExists is returned by Generate when a target file already exists and
// overwriting is off.
var ErrFileExists = errors.New("file already exists")

const generatedHeader = "Code generated by supermodel. DO NOT EDIT."

// ClassGenerator writes one Go source file per entity.
type ClassGenerator struct {
	// Package is the package clause of the generated files. Empty means
	// types.DefaultPackage.
	Package string
	// Overwrite allows replacing existing files.
	Overwrite bool
	// Workers bounds concurrent file writes. Zero means GOMAXPROCS.
	Workers int
}

// Generate renders every entity of m and writes the files into dir, which is
// created if needed. It returns the written paths in registry order. When
// Overwrite is false and any target exists, nothing is written.
//
// The model must not be mutated while Generate runs.
func (g ClassGenerator) Generate(ctx context.Context, m *types.Manager, dir string) ([]string, error) {
	type output struct {
		path string
		src  []byte
	}

	entities := m.All()
	outputs := make([]output, 0, len(entities))
	owners := make(map[string]string, len(entities))
	declared := make(map[string]string)
	for _, e := range entities {
		src, err := g.Render(e)
		if err != nil {
			return nil, err
		}
		for _, name := range declarations(e) {
			if other, ok := declared[name]; ok {
				return nil, types.Errorf(types.ErrDuplicateName, "Entities %s and %s both declare %s", other, e.Name(), name)
			}
			declared[name] = e.Name()
		}
		path := filepath.Join(dir, FileName(e))
		if other, ok := owners[path]; ok {
			return nil, types.Errorf(types.ErrDuplicateName, "Entities %s and %s both generate %s", other, e.Name(), FileName(e))
		}
		owners[path] = e.Name()
		if !g.Overwrite {
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%s: %w", path, ErrFileExists)
			}
		}
		outputs = append(outputs, output{path: path, src: src})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for _, o := range outputs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := os.WriteFile(o.path, o.src, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", o.path, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		paths = append(paths, o.path)
	}
	return paths, nil
}

// Render returns the formatted Go source for e: a struct with one field per
// attribute, a TableName method, a column list and finder functions. The
// finders are omitted for an entity without attributes.
func (g ClassGenerator) Render(e *types.Entity) ([]byte, error) {
	fieldNames, err := fields(e)
	if err != nil {
		return nil, err
	}

	f := jen.NewFile(g.pkg())
	f.HeaderComment(generatedHeader)

	typeName := TypeName(e)
	attrs := e.Attributes()

	structFields := make([]jen.Code, 0, len(attrs))
	columns := make([]jen.Code, 0, len(attrs))
	for i, a := range attrs {
		tag := a.Name
		if a.PrimaryKey {
			tag += ",pk"
		}
		structFields = append(structFields, jen.Id(fieldNames[i]).Add(goType(a.Type)).Tag(map[string]string{"db": tag}))
		columns = append(columns, jen.Lit(a.Name))
	}

	f.Commentf("%s is a row of the %s table.", typeName, e.Name())
	f.Type().Id(typeName).Struct(structFields...)

	f.Comment("TableName returns the table the row is stored in.")
	f.Func().Params(jen.Id(typeName)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(e.Name())),
	)

	f.Commentf("%sColumns lists the table columns in declaration order.", typeName)
	f.Var().Id(typeName + "Columns").Op("=").Index().String().Values(columns...)

	if len(attrs) > 0 {
		renderFinders(f, e, fieldNames)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", e.Name(), err)
	}
	return buf.Bytes(), nil
}

// renderFinders adds All<T>, one <T>By<Field> per attribute and the scan<T>
// helper. Lookups by the primary key return a single row or sql.ErrNoRows;
// the others return every matching row.
func renderFinders(f *jen.File, e *types.Entity, fieldNames []string) {
	typeName := TypeName(e)
	scanName := "scan" + typeName
	attrs := e.Attributes()

	cols := make([]string, len(attrs))
	for i, a := range attrs {
		cols[i] = quote(a.Name)
	}
	query := "SELECT " + strings.Join(cols, ", ") + " FROM " + quote(e.Name())

	dests := make([]jen.Code, len(attrs))
	for i, field := range fieldNames {
		dests[i] = jen.Op("&").Id("row").Dot(field)
	}

	ctxParam := func() jen.Code { return jen.Id("ctx").Qual("context", "Context") }
	dbParam := func() jen.Code { return jen.Id("db").Op("*").Qual("database/sql", "DB") }
	returnErr := func() jen.Code {
		return jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err()))
	}

	f.Commentf("All%s returns every row of the %s table.", typeName, e.Name())
	f.Func().Id("All"+typeName).Params(ctxParam(), dbParam()).Params(jen.Index().Id(typeName), jen.Error()).Block(
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("db").Dot("QueryContext").Call(jen.Id("ctx"), jen.Lit(query)),
		returnErr(),
		jen.Return(jen.Id(scanName).Call(jen.Id("rows"))),
	)

	for i, a := range attrs {
		name := typeName + "By" + fieldNames[i]
		where := jen.Lit(query + " WHERE " + quote(a.Name) + " = ?")
		valueParam := jen.Id("value").Add(goType(a.Type))

		if a.PrimaryKey {
			f.Commentf("%s returns the row whose %s is value, or sql.ErrNoRows.", name, a.Name)
			f.Func().Id(name).Params(ctxParam(), dbParam(), valueParam).Params(jen.Op("*").Id(typeName), jen.Error()).Block(
				jen.Var().Id("row").Id(typeName),
				jen.If(
					jen.Err().Op(":=").Id("db").Dot("QueryRowContext").Call(jen.Id("ctx"), where, jen.Id("value")).Dot("Scan").Call(dests...),
					jen.Err().Op("!=").Nil(),
				).Block(jen.Return(jen.Nil(), jen.Err())),
				jen.Return(jen.Op("&").Id("row"), jen.Nil()),
			)
			continue
		}

		f.Commentf("%s returns the rows whose %s is value.", name, a.Name)
		f.Func().Id(name).Params(ctxParam(), dbParam(), valueParam).Params(jen.Index().Id(typeName), jen.Error()).Block(
			jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("db").Dot("QueryContext").Call(jen.Id("ctx"), where, jen.Id("value")),
			returnErr(),
			jen.Return(jen.Id(scanName).Call(jen.Id("rows"))),
		)
	}

	f.Func().Id(scanName).Params(jen.Id("rows").Op("*").Qual("database/sql", "Rows")).Params(jen.Index().Id(typeName), jen.Error()).Block(
		jen.Defer().Id("rows").Dot("Close").Call(),
		jen.Var().Id("out").Index().Id(typeName),
		jen.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.Var().Id("row").Id(typeName),
			jen.If(
				jen.Err().Op(":=").Id("rows").Dot("Scan").Call(dests...),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Id("out").Op("=").Append(jen.Id("out"), jen.Id("row")),
		),
		jen.Return(jen.Id("out"), jen.Id("rows").Dot("Err").Call()),
	)
}

// fields returns the Go field name of every attribute of e, in order.
func fields(e *types.Entity) ([]string, error) {
	attrs := e.Attributes()
	names := make([]string, len(attrs))
	seen := make(map[string]string, len(attrs))
	for i, a := range attrs {
		field := inflect.Camelize(a.Name)
		if other, ok := seen[field]; ok {
			return nil, types.Errorf(types.ErrDuplicateName, "Attributes %s and %s of %s both generate field %s", other, a.Name, e.Name(), field)
		}
		seen[field] = a.Name
		names[i] = field
	}
	return names, nil
}

// declarations returns the package-level identifiers Render declares for e.
func declarations(e *types.Entity) []string {
	typeName := TypeName(e)
	names := []string{typeName, typeName + "Columns"}
	if len(e.Attributes()) == 0 {
		return names
	}
	names = append(names, "All"+typeName, "scan"+typeName)
	fieldNames, _ := fields(e)
	for _, field := range fieldNames {
		names = append(names, typeName+"By"+field)
	}
	return names
}

// TypeName returns the Go type name generated for e.
func TypeName(e *types.Entity) string {
	return inflect.Camelize(e.Name())
}

// FileName returns the file name generated for e, in snake case.
func FileName(e *types.Entity) string {
	return inflect.Underscore(e.Name()) + ".go"
}

// goType maps an attribute type to the Go type of its field.
func goType(t types.AttributeType) jen.Code {
	switch t {
	case types.TypeBlob:
		return jen.Index().Byte()
	case types.TypeBoolean:
		return jen.Bool()
	case types.TypeDate:
		return jen.Qual("time", "Time")
	case types.TypeDouble:
		return jen.Float64()
	case types.TypeFloat:
		return jen.Float32()
	case types.TypeInteger:
		return jen.Int32()
	case types.TypeLong:
		return jen.Int64()
	case types.TypeString:
		return jen.String()
	default:
		return jen.Interface()
	}
}

func (g ClassGenerator) pkg() string {
	if g.Package == "" {
		return types.DefaultPackage
	}
	return g.Package
}

func (g ClassGenerator) workers() int {
	if g.Workers > 0 {
		return g.Workers
	}
	return runtime.GOMAXPROCS(0)
}
