package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"clubes/internal/adapters/apiclient"
	"clubes/internal/adapters/sessionstore"
	"clubes/internal/application/frontend"
	"clubes/internal/domain/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out        io.Writer
	in         io.Reader
	store      *sessionstore.Store
	baseURL    string
	httpClient *http.Client
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -user USUARIO            - inicia sesión (la contraseña se pide a continuación)")
	fmt.Fprintln(cli.out, "  logout                         - cierra la sesión y borra los datos guardados")
	fmt.Fprintln(cli.out, "  whoami                         - muestra la sesión actual")
	fmt.Fprintln(cli.out, "  clubs                          - lista los clubes (distrital)")
	fmt.Fprintln(cli.out, "  club ID                        - abre un club en modo lectura (distrital)")
	fmt.Fprintln(cli.out, "  volver                         - vuelve a la lista de clubes (distrital)")
	fmt.Fprintln(cli.out, "  clases                         - lista las clases del club")
	fmt.Fprintln(cli.out, "  crear-clase NOMBRE             - crea una clase en el club")
	fmt.Fprintln(cli.out, "  clase ID                       - selecciona una clase")
	fmt.Fprintln(cli.out, "  tabla [-sel ID]                - muestra la tabla de progreso")
	fmt.Fprintln(cli.out, "  select ID                      - muestra la tabla con un conquistador seleccionado")
	fmt.Fprintln(cli.out, "  toggle MIEMBRO REQUISITO on|off - marca o desmarca un requisito")
	fmt.Fprintln(cli.out, "  add NOMBRE                     - agrega un conquistador a la clase")
	fmt.Fprintln(cli.out, "  rename -id ID NOMBRE           - renombra un conquistador")
	fmt.Fprintln(cli.out, "  delete -id ID [-y]             - elimina un conquistador y su progreso")
	fmt.Fprintln(cli.out, "Un error de carga se reintenta ejecutando el mismo comando.")
}

func (cli *commandLine) client() *apiclient.Client {
	return apiclient.New(cli.baseURL, cli.token, cli.httpClient)
}

func (cli *commandLine) token() string {
	s, err := cli.store.Load()
	if err != nil {
		return ""
	}
	return s.Token
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	cmd, rest := args[1], args[2:]

	switch cmd {
	case "login":
		return cli.login(ctx, rest)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami()
	case "clubs":
		return cli.clubs(ctx)
	case "club":
		if len(rest) != 1 {
			return cli.usageErr("club ID")
		}
		return cli.enterClub(ctx, rest[0])
	case "volver":
		return cli.back()
	case "clases":
		return cli.clases(ctx)
	case "crear-clase":
		if len(rest) == 0 {
			return cli.usageErr("crear-clase NOMBRE")
		}
		return cli.createClase(ctx, strings.Join(rest, " "))
	case "clase":
		if len(rest) != 1 {
			return cli.usageErr("clase ID")
		}
		return cli.selectClase(ctx, rest[0])
	case "tabla":
		fs := flag.NewFlagSet("tabla", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		sel := fs.String("sel", "", "id del conquistador a seleccionar")
		if err := fs.Parse(rest); err != nil {
			return errHelp
		}
		return cli.table(ctx, *sel)
	case "select":
		if len(rest) != 1 {
			return cli.usageErr("select ID")
		}
		return cli.table(ctx, rest[0])
	case "toggle":
		if len(rest) != 3 {
			return cli.usageErr("toggle MIEMBRO REQUISITO on|off")
		}
		return cli.toggle(ctx, rest[0], rest[1], rest[2])
	case "add":
		if len(rest) == 0 {
			return cli.usageErr("add NOMBRE")
		}
		return cli.add(ctx, strings.Join(rest, " "))
	case "rename":
		fs := flag.NewFlagSet("rename", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		id := fs.String("id", "", "id del conquistador")
		if err := fs.Parse(rest); err != nil {
			return errHelp
		}
		if *id == "" || fs.NArg() == 0 {
			return cli.usageErr("rename -id ID NOMBRE")
		}
		return cli.rename(ctx, *id, strings.Join(fs.Args(), " "))
	case "delete":
		fs := flag.NewFlagSet("delete", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		id := fs.String("id", "", "id del conquistador")
		yes := fs.Bool("y", false, "no pedir confirmación")
		if err := fs.Parse(rest); err != nil {
			return errHelp
		}
		if *id == "" {
			return cli.usageErr("delete -id ID [-y]")
		}
		return cli.delete(ctx, *id, *yes)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) usageErr(usage string) error {
	fmt.Fprintln(cli.out, "Usage: clubctl "+usage)
	return errHelp
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	user := fs.String("user", "", "usuario")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	if strings.TrimSpace(*user) == "" {
		fs.Usage()
		return frontend.ErrEmptyUser
	}
	fmt.Fprint(cli.out, "Contraseña:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}

	res, err := frontend.ExecuteLogin(ctx, frontend.LoginInput{User: *user, Password: string(pwd)},
		frontend.LoginDeps{API: cli.client(), Store: cli.store})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Bienvenido, %s (%s). Siguiente: %s\n", res.Session.UserName, res.Session.Rol, nextStep(res.Redirect))
	return nil
}

func nextStep(redirect string) string {
	if redirect == session.DashboardDistrital {
		return "clubctl clubs"
	}
	return "clubctl clases"
}

func (cli *commandLine) dashboard() (*frontend.Dashboard, error) {
	return frontend.NewDashboard(cli.client(), cli.store)
}

func (cli *commandLine) logout(ctx context.Context) error {
	d, err := cli.dashboard()
	if errors.Is(err, frontend.ErrNotAuthenticated) {
		return cli.store.Clear()
	}
	if err != nil {
		return err
	}
	if err := d.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Sesión cerrada")
	return nil
}

func (cli *commandLine) whoami() error {
	s, err := cli.store.Load()
	if err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		return frontend.ErrNotAuthenticated
	}
	fmt.Fprintf(cli.out, "usuario: %s\nrol: %s\nacceso: %s\nclub: %s %s\nclase: %s %s\n",
		s.UserName, s.Rol, s.Access(), s.ClubID, s.ClubNombre, s.ClaseID, s.ClaseNombre)
	return nil
}

func (cli *commandLine) clubs(ctx context.Context) error {
	d, err := cli.dashboard()
	if err != nil {
		return err
	}
	clubs, err := d.Clubs(ctx)
	if err != nil {
		return err
	}
	if len(clubs) == 0 {
		fmt.Fprintln(cli.out, "No hay clubes registrados")
		return nil
	}
	for _, c := range clubs {
		fmt.Fprintf(cli.out, "%s\t%s\n", c.ID, c.Nombre)
	}
	return nil
}

func (cli *commandLine) enterClub(ctx context.Context, id string) error {
	d, err := cli.dashboard()
	if err != nil {
		return err
	}
	clubs, err := d.Clubs(ctx)
	if err != nil {
		return err
	}
	for _, c := range clubs {
		if c.ID == id {
			if err := d.EnterClub(c); err != nil {
				return err
			}
			fmt.Fprintln(cli.out, d.Title())
			return nil
		}
	}
	return fmt.Errorf("club %s no encontrado", id)
}

func (cli *commandLine) back() error {
	d, err := cli.dashboard()
	if err != nil {
		return err
	}
	return d.BackToClubs()
}

func (cli *commandLine) clases(ctx context.Context) error {
	d, err := cli.dashboard()
	if err != nil {
		return err
	}
	clases, err := d.Clases(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, d.Title())
	if d.Session().IsReadMode() {
		fmt.Fprintln(cli.out, "MODO LECTURA: no puedes modificar datos.")
	}
	if len(clases) == 0 {
		fmt.Fprintln(cli.out, "No hay clases registradas en este club")
		return nil
	}
	for _, c := range clases {
		fmt.Fprintf(cli.out, "%d\t%s\n", c.ID, c.Nombre)
	}
	return nil
}

func (cli *commandLine) createClase(ctx context.Context, nombre string) error {
	d, err := cli.dashboard()
	if err != nil {
		return err
	}
	c, err := d.CreateClase(ctx, nombre)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Clase creada: %d\t%s\n", c.ID, c.Nombre)
	return nil
}

func (cli *commandLine) selectClase(ctx context.Context, id string) error {
	d, err := cli.dashboard()
	if err != nil {
		return err
	}
	clases, err := d.Clases(ctx)
	if err != nil {
		return err
	}
	for _, c := range clases {
		if strconv.FormatInt(c.ID, 10) == id {
			return d.SelectClase(c)
		}
	}
	return fmt.Errorf("clase %s no encontrada", id)
}

// classView loads the detail table for the stored session.
func (cli *commandLine) classView(ctx context.Context) (*frontend.ClassView, error) {
	sess, err := cli.store.Load()
	if err != nil {
		return nil, err
	}
	v := frontend.NewClassView(cli.client(), sess)
	if err := v.Load(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

func (cli *commandLine) table(ctx context.Context, sel string) error {
	v, err := cli.classView(ctx)
	if err != nil {
		return err
	}
	if sel != "" {
		if err := v.Select(sel); err != nil {
			return err
		}
	}
	return frontend.Render(cli.out, v.View())
}

func (cli *commandLine) toggle(ctx context.Context, memberID, reqID, state string) error {
	var checked bool
	switch strings.ToLower(state) {
	case "on", "si", "sí", "true", "1":
		checked = true
	case "off", "no", "false", "0":
	default:
		return cli.usageErr("toggle MIEMBRO REQUISITO on|off")
	}
	v, err := cli.classView(ctx)
	if err != nil {
		return err
	}
	res, err := v.Toggle(ctx, memberID, reqID, checked)
	if err != nil {
		return err
	}
	_ = v.Select(memberID)
	if err := frontend.Render(cli.out, v.View()); err != nil {
		return err
	}
	if res.AvisoEnviado {
		fmt.Fprintln(cli.out, "Aviso enviado al club: requisitos regulares completos.")
	}
	return nil
}

func (cli *commandLine) add(ctx context.Context, nombre string) error {
	v, err := cli.classView(ctx)
	if err != nil {
		return err
	}
	m, err := v.AddMember(ctx, nombre)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Conquistador agregado: %d\t%s\n", m.ID, m.Nombre)
	return nil
}

func (cli *commandLine) rename(ctx context.Context, id, nombre string) error {
	v, err := cli.classView(ctx)
	if err != nil {
		return err
	}
	if err := v.Select(id); err != nil {
		return err
	}
	return v.RenameSelected(ctx, nombre)
}

func (cli *commandLine) delete(ctx context.Context, id string, yes bool) error {
	v, err := cli.classView(ctx)
	if err != nil {
		return err
	}
	if !v.CanMutate() {
		return frontend.ErrReadOnly
	}
	if err := v.Select(id); err != nil {
		return err
	}
	if !yes {
		m, _ := v.Selected()
		fmt.Fprintf(cli.out, "¿Eliminar a %s? Esta acción no se puede deshacer. [s/N] ", m.Nombre)
		line, _ := bufio.NewReader(cli.in).ReadString('\n')
		if ans := strings.ToLower(strings.TrimSpace(line)); ans != "s" && ans != "si" && ans != "sí" {
			fmt.Fprintln(cli.out, "Cancelado")
			return nil
		}
	}
	if err := v.DeleteSelected(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Conquistador eliminado")
	return nil
}
