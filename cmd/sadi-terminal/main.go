// Command sadi-terminal is a guard-post CLI for the AccesoSEN backend. It
// keeps the token pair sealed on disk, so a restarted terminal resumes the
// guard's session and active shift without asking for credentials again.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/accesosen/sadi-client/internal/core/domain"
	"github.com/accesosen/sadi-client/internal/core/ports"
	"github.com/accesosen/sadi-client/internal/core/service"
	"github.com/accesosen/sadi-client/internal/infrastructure/config"
	"github.com/accesosen/sadi-client/internal/infrastructure/gateway"
	"github.com/accesosen/sadi-client/internal/infrastructure/httpclient"
	"github.com/accesosen/sadi-client/internal/infrastructure/queue"
	"github.com/accesosen/sadi-client/internal/infrastructure/tokenstore"
	"github.com/accesosen/sadi-client/pkg/logger"
)

type app struct {
	shifts  ports.ShiftGateway
	access  ports.AccessGateway
	notifs  ports.NotificationGateway
	session *service.Session
	retrier *queue.FinishRetry
}

func usage() {
	fmt.Fprintf(os.Stderr, `sadi terminal
Usage:
  sadi-terminal [-base URL] <cmd> [args]

Commands:
  login      -u <username> -p <password> -sede <sede> -jornada <jornada>
  session                                  (show current session and shift)
  validar    -doc <documento>
  registrar  -doc <documento> -tipo <ingreso|salida> [-equipos 1,2,3]
  stats                                    (live counters for this shift)
  alertas                                  (list notifications)
  leer       -id <notificacion>
  resumen    -id <turno>
  finalizar                                (end the shift and sign out)
  logout
`)
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func tokenPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Tokens.FilePath) {
		return cfg.Tokens.FilePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg.Tokens.FilePath
	}
	return filepath.Join(home, cfg.Tokens.FilePath)
}

func newApp(baseURL string, cfg *config.Config) *app {
	log := logger.Get()

	tokens := tokenstore.NewFile(tokenPath(cfg), cfg.Tokens.Passphrase)
	client := httpclient.New(httpclient.Options{
		BaseURL: baseURL,
		Timeout: cfg.API.Timeout,
		Tokens:  tokens,
		Logger:  log,
	})
	auth := gateway.NewAuth(client, tokens)
	shifts := gateway.NewShift(client)
	session := service.NewSession(tokens, auth, shifts, log)

	retrier := queue.NewFinishRetry(func(ctx context.Context) error {
		resp, err := shifts.FinalizarTurno(ctx)
		if err != nil {
			if domain.IsTransient(err) {
				return err
			}
			// Definitive refusal: the shift is already closed server-side.
			session.ResolveFinish(nil)
			return nil
		}
		session.ResolveFinish(resp.Turno)
		return nil
	}, 30*time.Second, log)
	session.OnFinishFailed = retrier.Enqueue

	return &app{
		shifts:  shifts,
		access:  gateway.NewAccess(client),
		notifs:  gateway.NewNotification(client),
		session: session,
		retrier: retrier,
	}
}

func main() {
	log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL")})

	base := flag.String("base", "", "backend base URL (overrides API_BASE_URL)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	cfg := config.Load(log)
	baseURL := cfg.API.BaseURL
	if *base != "" {
		baseURL = *base
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	a := newApp(baseURL, cfg)
	a.retrier.Start(ctx)

	switch cmd {

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		u := fs.String("u", "", "username")
		p := fs.String("p", "", "password")
		sede := fs.String("sede", "", "sede (CEGAFE, SANTA_CLARA, ITEDRIS, GASTRONOMIA)")
		jornada := fs.String("jornada", "", "jornada (MANANA, TARDE, NOCHE)")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}

		err := a.session.SignIn(ctx, ports.SignInInput{
			Username: *u,
			Password: *p,
			Rol:      domain.RoleGuard,
			Sede:     *sede,
			Jornada:  *jornada,
		})
		if err != nil {
			fail(err)
		}
		snap := a.session.Snapshot()
		if snap.Turno != nil {
			fmt.Printf("turno %d activo en %s (%s)\n", snap.Turno.ID, snap.Turno.Sede, snap.Turno.Jornada)
		} else {
			fmt.Println("sesión iniciada sin turno activo")
		}

	case "session":
		if err := a.session.Bootstrap(ctx); err != nil {
			fail(err)
		}
		snap := a.session.Snapshot()
		if snap.User == nil {
			fmt.Println("sin sesión, usa login")
			return
		}
		printJSON(snap)

	case "validar":
		fs := flag.NewFlagSet("validar", flag.ExitOnError)
		doc := fs.String("doc", "", "documento")
		_ = fs.Parse(flag.Args()[1:])
		if *doc == "" {
			fmt.Fprintln(os.Stderr, "need -doc")
			os.Exit(1)
		}

		out, err := a.access.ValidarDocumento(ctx, *doc)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "registrar":
		fs := flag.NewFlagSet("registrar", flag.ExitOnError)
		doc := fs.String("doc", "", "documento")
		tipo := fs.String("tipo", domain.TipoIngreso, "ingreso or salida")
		equipos := fs.String("equipos", "", "comma-separated equipment IDs")
		_ = fs.Parse(flag.Args()[1:])
		if *doc == "" {
			fmt.Fprintln(os.Stderr, "need -doc")
			os.Exit(1)
		}
		ids, err := parseIDs(*equipos)
		if err != nil {
			fail(err)
		}

		out, err := a.access.RegistrarPorDocumento(ctx, *doc, *tipo, ids)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "stats":
		out, err := a.access.Stats(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "alertas":
		out, err := a.notifs.ListNotificaciones(ctx)
		if err != nil {
			fail(err)
		}
		if len(out.Items) == 0 {
			fmt.Println("no hay alertas")
			return
		}
		printJSON(out.Items)

	case "leer":
		fs := flag.NewFlagSet("leer", flag.ExitOnError)
		id := fs.Int("id", 0, "notification ID")
		_ = fs.Parse(flag.Args()[1:])
		if *id <= 0 {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		out, err := a.notifs.MarcarLeida(ctx, *id)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "resumen":
		fs := flag.NewFlagSet("resumen", flag.ExitOnError)
		id := fs.Int("id", 0, "turno ID")
		_ = fs.Parse(flag.Args()[1:])
		if *id <= 0 {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		out, err := a.shifts.ResumenTurno(ctx, *id)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "finalizar":
		if err := a.session.Bootstrap(ctx); err != nil {
			fail(err)
		}
		if err := a.session.FinalizarTurno(ctx); err != nil {
			fail(err)
		}
		snap := a.session.Snapshot()
		if snap.PendingFinish {
			// Give the retrier one immediate round before the process exits;
			// the close is still pending server-side if this fails too.
			if err := a.retryOnce(ctx); err != nil {
				fmt.Println("cierre de turno pendiente, se reintentará en el próximo inicio")
			}
		}
		_ = a.session.SignOut(ctx)
		fmt.Println("turno finalizado, sesión cerrada")

	case "logout":
		_ = a.session.SignOut(ctx)
		fmt.Println("sesión cerrada")

	default:
		usage()
	}
}

func (a *app) retryOnce(ctx context.Context) error {
	resp, err := a.shifts.FinalizarTurno(ctx)
	if err != nil {
		if domain.IsTransient(err) {
			return err
		}
		a.session.ResolveFinish(nil)
		return nil
	}
	a.session.ResolveFinish(resp.Turno)
	return nil
}

func parseIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad equipment id %q", p)
		}
		ids = append(ids, n)
	}
	return ids, nil
}
