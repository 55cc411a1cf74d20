package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ndn-lite/ndnlite-go/internal/appsupport/bootstrap"
	"github.com/ndn-lite/ndnlite-go/internal/appsupport/client"
	"github.com/ndn-lite/ndnlite-go/internal/appsupport/repo"
	"github.com/ndn-lite/ndnlite-go/internal/config"
	"github.com/ndn-lite/ndnlite-go/internal/cs"
	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/face/netface"
	"github.com/ndn-lite/ndnlite-go/internal/fib"
	"github.com/ndn-lite/ndnlite-go/internal/forwarder"
	"github.com/ndn-lite/ndnlite-go/internal/httpapi"
	"github.com/ndn-lite/ndnlite-go/internal/keystorage"
	"github.com/ndn-lite/ndnlite-go/internal/logger"
	"github.com/ndn-lite/ndnlite-go/internal/metrics"
	"github.com/ndn-lite/ndnlite-go/internal/msgqueue"
	"github.com/ndn-lite/ndnlite-go/internal/nametree"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/pit"
	"github.com/ndn-lite/ndnlite-go/internal/signature"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	flags := pflag.NewFlagSet("ndnlited", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to config file (default: $XDG_CONFIG_HOME/ndnlite/config.yaml)")
	showVersion := flags.BoolP("version", "v", false, "print version and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	if *showVersion {
		fmt.Printf("ndnlited %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load(*configPath, nil)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output}); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("starting ndnlited", "version", version, "commit", commit)

	tables, fw := buildForwarder(cfg)

	if err := wireBootstrapper(cfg, &tables, fw); err != nil {
		log.Fatalf("wire bootstrap: %v", err)
	}

	var m *metrics.Metrics
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		m = metrics.New()
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsServer = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Metrics.Port), Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("metrics server listening", "port", cfg.Metrics.Port)
		fw.Metrics = m
		go recordOccupancy(ctx, m, tables)
	}

	var apiServer *http.Server
	if cfg.HTTPAPI.Enabled {
		apiServer = &http.Server{Addr: cfg.HTTPAPI.Addr, Handler: httpapi.NewRouter(tables)}
		go func() {
			if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("diagnostics api server failed", "error", err)
			}
		}()
		logger.Info("diagnostics api listening", "addr", cfg.HTTPAPI.Addr)
	}

	appRepo, err := wireRepo(cfg, tables)
	if err != nil {
		log.Fatalf("wire repo store: %v", err)
	}
	if appRepo != nil {
		defer func() { _ = appRepo.Close() }()
	}

	if err := dialStaticFaces(cfg, tables, fw); err != nil {
		log.Fatalf("dial static faces: %v", err)
	}

	go fw.Run(ctx)
	go fw.RunPITSweep(ctx, cfg.Tables.PITSweepInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("ndnlited is running, press Ctrl+C to stop")
	<-sigChan
	signal.Stop(sigChan)
	logger.Info("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if apiServer != nil {
		_ = apiServer.Shutdown(shutdownCtx)
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	logger.Info("ndnlited stopped")
}

// recordOccupancy samples table sizes into the metrics gauges every
// second until ctx is canceled.
func recordOccupancy(ctx context.Context, m *metrics.Metrics, tables httpapi.Tables) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RecordFaceOccupancy(tables.Faces.Len())
			m.RecordFIBOccupancy(tables.FIB.Len())
			m.RecordPITOccupancy(tables.PIT.Len())
			m.RecordCSOccupancy(tables.CS.Len())
		}
	}
}

func buildForwarder(cfg *config.Config) (httpapi.Tables, *forwarder.Forwarder) {
	tree := nametree.New(cfg.Tables.NameTreeCapacity)
	faces := face.NewTable(cfg.Tables.FaceCapacity)
	f := fib.New(tree, cfg.Tables.FIBCapacity)
	p := pit.New(tree, cfg.Tables.PITCapacity)
	c := cs.New(tree, cfg.Tables.CSCapacity)
	q := msgqueue.New(cfg.Tables.MsgQueueCapacity)

	fw := forwarder.New(faces, f, p, c, q)
	tables := httpapi.Tables{Faces: faces, FIB: f, PIT: p, CS: c}
	return tables, fw
}

// wireRepo opens the badger-backed repo store under the daemon's data
// directory and registers it as the FIB application callback for every
// route prefix marked as locally served in the config's faces list, the
// same way an "app" face would register itself.
func wireRepo(cfg *config.Config, tables httpapi.Tables) (*repo.Repo, error) {
	var repoPrefixes []string
	for _, fc := range cfg.Faces {
		if fc.Type == "app" {
			repoPrefixes = append(repoPrefixes, fc.Routes...)
		}
	}
	if len(repoPrefixes) == 0 {
		return nil, nil
	}

	dataDir := repoDataDir()
	r, err := repo.Open(dataDir, tables.Faces)
	if err != nil {
		return nil, err
	}
	for _, prefixURI := range repoPrefixes {
		name, err := ndn.ParseURI(prefixURI)
		if err != nil {
			return r, err
		}
		if err := r.Register(tables.FIB, name); err != nil {
			return r, err
		}
		logger.Info("repo registered", logger.Name(name.String()))
	}
	return r, nil
}

// wireBootstrapper builds a keystorage.Store, an in-process client that
// can express Interests through fw, and a bootstrap.Bootstrapper, then
// installs it on tables so the diagnostics API exposes POST /bootstrap.
// A config with no trust anchor name leaves the daemon without one:
// bootstrap is an opt-in, not every node needs to re-run sign-on.
func wireBootstrapper(cfg *config.Config, tables *httpapi.Tables, fw *forwarder.Forwarder) error {
	if cfg.Bootstrap.TrustAnchorName == "" {
		return nil
	}
	anchorName, err := ndn.ParseURI(cfg.Bootstrap.TrustAnchorName)
	if err != nil {
		return err
	}
	signOnPrefix, err := ndn.ParseURI(cfg.Bootstrap.SignOnPrefix)
	if err != nil {
		return err
	}

	store := keystorage.New(0, 0)
	cl, err := client.New(tables.Faces, fw)
	if err != nil {
		return err
	}
	b := bootstrap.New(store, cl.Express, anchorName, signOnPrefix)
	tables.Bootstrapper = &certResponderBootstrapper{inner: b, store: store, fib: tables.FIB, faces: tables.Faces}
	logger.Info("bootstrap wired", logger.Name(anchorName.String()))
	return nil
}

// certResponderBootstrapper runs the sign-on exchange and, once it
// succeeds, registers a FIB prefix under the new identity that answers
// certificate-fetch Interests with the installed self-certificate, the
// responder side of the cert-fetch flow other identities use to resolve
// this device's signing key.
type certResponderBootstrapper struct {
	inner *bootstrap.Bootstrapper
	store *keystorage.Store
	fib   *fib.FIB
	faces *face.Table
}

func (b *certResponderBootstrapper) Run(deviceID string, onDone func(error)) {
	b.inner.Run(deviceID, func(err error) {
		if err == nil {
			if regErr := registerSelfCertificateResponder(b.store, b.fib, b.faces); regErr != nil {
				logger.Warn("failed to register certificate responder", logger.Err(regErr))
			}
		}
		onDone(err)
	})
}

func registerSelfCertificateResponder(store *keystorage.Store, f *fib.FIB, faces *face.Table) error {
	identityName, _, _ := store.SelfIdentity()
	prefix, err := signature.SelfCertificatePrefix(identityName)
	if err != nil {
		return err
	}
	engine := signature.NewEngine(store, nil)
	return f.RegisterPrefix(prefix, func(interest *ndn.Interest, incomingFace uint16, userData any) fib.Strategy {
		cert := engine.HandleCertificateRequest()
		if cert == nil {
			return fib.StrategyMulticast
		}
		wire, err := cert.Encode()
		if err != nil {
			logger.Warn("failed to encode self certificate", logger.Err(err))
			return fib.StrategySuppress
		}
		fc, ok := faces.Get(incomingFace)
		if !ok {
			return fib.StrategySuppress
		}
		if err := face.Send(fc, wire); err != nil {
			logger.Warn("failed to send self certificate", logger.FaceID(incomingFace), logger.Err(err))
		}
		return fib.StrategySuppress
	}, nil)
}

func repoDataDir() string {
	if dir := os.Getenv("NDNLITE_REPO_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./ndnlite-repo"
	}
	return home + "/.local/share/ndnlite/repo"
}

// dialStaticFaces brings up every "net" face named in the config by
// dialing its configured address, registers it in the face table, and
// installs its configured routes in the FIB.
func dialStaticFaces(cfg *config.Config, tables httpapi.Tables, fw *forwarder.Forwarder) error {
	for _, fc := range cfg.Faces {
		if fc.Type != "net" {
			continue
		}
		conn, err := net.Dial(fc.Network, fc.Address)
		if err != nil {
			return err
		}
		nf := netface.New(conn, fc.MTU, fw)
		id, err := tables.Faces.Add(nf)
		if err != nil {
			_ = conn.Close()
			return err
		}
		if err := nf.Up(); err != nil {
			return err
		}
		logger.Info("face up", logger.FaceID(id), "name", fc.Name, "address", fc.Address)
		for _, routeURI := range fc.Routes {
			name, err := ndn.ParseURI(routeURI)
			if err != nil {
				return err
			}
			if err := tables.FIB.AddRoute(name, id); err != nil {
				return err
			}
		}
	}
	return nil
}
