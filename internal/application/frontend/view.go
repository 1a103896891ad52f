package frontend

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"clubes/internal/domain/progreso"
)

// EmptyRosterText is shown in place of the table when the class has no members.
const EmptyRosterText = "No hay conquistadores en esta clase"

// Header is one requirement column.
type Header struct {
	RequisitoID string
	Titulo      string
	Tooltip     string
	Avanzada    bool
}

// Cell is one checkbox of the table.
type Cell struct {
	RequisitoID string
	Checked     bool
	Disabled    bool
	Avanzada    bool
}

// Row is one member of the table.
type Row struct {
	ConquistadorID string
	Nombre         string
	Selected       bool
	Cells          []Cell
}

// Panel describes the selected member.
type Panel struct {
	Nombre  string
	Summary progreso.Summary
}

// ViewModel is everything the rendering layer needs. Affordances are derived from the same
// predicate the action methods check.
type ViewModel struct {
	Title        string
	ReadOnly     bool
	CatalogError string
	Headers      []Header
	Rows         []Row
	Panel        *Panel
	CanAdd       bool
	CanEdit      bool
	CanDelete    bool
}

// View builds the table view model from the current state.
func (v *ClassView) View() ViewModel {
	mutable := v.CanMutate()

	v.mu.Lock()
	defer v.mu.Unlock()

	vm := ViewModel{
		Title:    v.sess.ClaseNombre + " – " + v.clubNombre,
		ReadOnly: !mutable,
		CanAdd:   mutable,
	}
	if !mutable {
		vm.Title += " (LECTURA)"
	}
	if v.catalogErr != nil {
		vm.CatalogError = "Error cargando requisitos"
	}

	vm.Headers = make([]Header, 0, len(v.catalog))
	for _, r := range v.catalog {
		vm.Headers = append(vm.Headers, Header{
			RequisitoID: strconv.FormatInt(r.ID, 10),
			Titulo:      r.Titulo,
			Tooltip:     r.Categoria + " - " + r.Tipo,
			Avanzada:    r.IsAvanzada(),
		})
	}

	vm.Rows = make([]Row, 0, len(v.members))
	for _, m := range v.members {
		id := strconv.FormatInt(m.ID, 10)
		row := Row{ConquistadorID: id, Nombre: m.Nombre, Selected: id == v.selected}
		row.Cells = make([]Cell, 0, len(vm.Headers))
		for _, h := range vm.Headers {
			row.Cells = append(row.Cells, Cell{
				RequisitoID: h.RequisitoID,
				Checked:     v.ledger.IsCumplido(progreso.Key{ConquistadorID: id, RequisitoID: h.RequisitoID}),
				Disabled:    !mutable,
				Avanzada:    h.Avanzada,
			})
		}
		vm.Rows = append(vm.Rows, row)
	}

	if sel, ok := v.memberLocked(v.selected); ok {
		vm.Panel = &Panel{
			Nombre:  sel.Nombre,
			Summary: progreso.Percentages(v.ledger, v.selected, v.catalog),
		}
		vm.CanEdit = mutable
		vm.CanDelete = mutable
	}
	return vm
}

// maxHeaderWidth truncates requirement titles in column headers.
const maxHeaderWidth = 14

// Render prints the view model as a terminal table.
// Checkboxes render as [x]/[ ], or (x)/( ) when disabled. Avanzada columns are marked with *.
func Render(w io.Writer, vm ViewModel) error {
	var b strings.Builder
	b.WriteString(vm.Title + "\n")
	if vm.ReadOnly {
		b.WriteString("MODO LECTURA\n")
	}
	if vm.CatalogError != "" {
		b.WriteString(vm.CatalogError + "\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if len(vm.Rows) == 0 {
		msg := EmptyRosterText + "\n"
		if vm.CanAdd {
			msg += "Agregar conquistador: clubctl add <nombre>\n"
		}
		_, err := io.WriteString(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "\tID\tConquistador")
	for _, h := range vm.Headers {
		label := truncate(h.Titulo, maxHeaderWidth)
		if h.Avanzada {
			label += "*"
		}
		fmt.Fprintf(tw, "\t%s", label)
	}
	fmt.Fprintln(tw)
	fmt.Fprint(tw, "\t\t")
	for _, h := range vm.Headers {
		fmt.Fprintf(tw, "\t#%s", h.RequisitoID)
	}
	fmt.Fprintln(tw)

	for _, row := range vm.Rows {
		marker := ""
		if row.Selected {
			marker = ">"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s", marker, row.ConquistadorID, row.Nombre)
		for _, c := range row.Cells {
			fmt.Fprintf(tw, "\t%s", checkbox(c))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if vm.Panel != nil {
		fmt.Fprintf(w, "\n%s\nClase regular: %d%%\nClase avanzada: %d%%\n",
			vm.Panel.Nombre, vm.Panel.Summary.Regular, vm.Panel.Summary.Avanzada)
	}

	var actions []string
	if vm.CanAdd {
		actions = append(actions, "add")
	}
	if vm.CanEdit {
		actions = append(actions, "rename")
	}
	if vm.CanDelete {
		actions = append(actions, "delete")
	}
	if len(actions) > 0 {
		_, err := fmt.Fprintf(w, "Acciones: %s\n", strings.Join(actions, ", "))
		return err
	}
	return nil
}

func checkbox(c Cell) string {
	mark := " "
	if c.Checked {
		mark = "x"
	}
	if c.Disabled {
		return "(" + mark + ")"
	}
	return "[" + mark + "]"
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
