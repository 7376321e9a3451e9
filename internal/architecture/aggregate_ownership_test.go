package architecture_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Repo methods that write or take row locks. Services must reach them through an aggregate.
var repoWriteMethods = map[string]bool{
	"Create":    true,
	"LockByID":  true,
	"LockByIDs": true,
}

// Balance and paid-flag mutations live in internal/data/aggregates only.
var guardedMutations = map[string]bool{
	"UpdateBalance": true,
	"MarkJobPaid":   true,
	"UpdateIfMatch": true,
}

func TestServicesWriteOnlyThroughAggregates(t *testing.T) {
	mod := loadModule(t)
	fset := token.NewFileSet()
	servicesDir := filepath.Join(mod.root, "internal", "services")
	entries, err := os.ReadDir(servicesDir)
	if err != nil {
		t.Fatalf("read services: %v", err)
	}
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(servicesDir, name), nil, 0)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		files = append(files, f)
	}

	repoFields := map[string]map[string]bool{}
	for _, f := range files {
		collectRepoFields(f, repoFields)
	}

	var violations []string
	for _, f := range files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
				continue
			}
			recvName, recvType := recvInfo(fd.Recv.List[0])
			fields := repoFields[recvType]
			if recvName == "" || len(fields) == 0 {
				continue
			}
			ast.Inspect(fd.Body, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				fnSel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}
				rcvSel, ok := fnSel.X.(*ast.SelectorExpr)
				if !ok {
					return true
				}
				base, ok := rcvSel.X.(*ast.Ident)
				if !ok || base.Name != recvName {
					return true
				}
				if fields[rcvSel.Sel.Name] && repoWriteMethods[fnSel.Sel.Name] {
					pos := fset.Position(call.Pos())
					violations = append(violations, fmt.Sprintf("%s:%d %s.%s calls %s.%s",
						filepath.Base(pos.Filename), pos.Line, recvType, fd.Name.Name, rcvSel.Sel.Name, fnSel.Sel.Name))
				}
				return true
			})
		}
	}
	if len(violations) > 0 {
		t.Fatalf("service methods writing repos directly:\n- %s", strings.Join(violations, "\n- "))
	}
}

func TestGuardedMutationsStayInAggregates(t *testing.T) {
	mod := loadModule(t)
	fset := token.NewFileSet()

	var violations []string
	walkErr := mod.walkSources(func(path, rel string) error {
		if strings.HasPrefix(rel, "internal/data/aggregates/") {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			return err
		}
		ast.Inspect(f, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if ok && guardedMutations[sel.Sel.Name] {
				violations = append(violations, fmt.Sprintf("%s:%d calls %s", rel, fset.Position(call.Pos()).Line, sel.Sel.Name))
			}
			return true
		})
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	if len(violations) > 0 {
		t.Fatalf("guarded mutations outside internal/data/aggregates:\n- %s", strings.Join(violations, "\n- "))
	}
}

func collectRepoFields(file *ast.File, out map[string]map[string]bool) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			for _, field := range st.Fields.List {
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				pkgIdent, ok := sel.X.(*ast.Ident)
				if !ok || pkgIdent.Name != "repos" || !strings.HasSuffix(sel.Sel.Name, "Repo") {
					continue
				}
				if out[ts.Name.Name] == nil {
					out[ts.Name.Name] = map[string]bool{}
				}
				for _, name := range field.Names {
					out[ts.Name.Name][name.Name] = true
				}
			}
		}
	}
}

func recvInfo(field *ast.Field) (string, string) {
	if field == nil || len(field.Names) == 0 {
		return "", ""
	}
	name := field.Names[0].Name
	switch t := field.Type.(type) {
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return name, ident.Name
		}
	case *ast.Ident:
		return name, t.Name
	}
	return "", ""
}
