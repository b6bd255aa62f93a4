package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/castrlabs/castr/app"
	"github.com/castrlabs/castr/pkg/eventstore/badger"
	"github.com/castrlabs/castr/pkg/relayinfo"
	"github.com/castrlabs/castr/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

const configFileName = "config.json"

func main() {
	conf := &app.Config{}
	arg.MustParse(conf)
	slog.SetLogLevelString(conf.LogLevel)
	dataDir := profileDir(conf.Profile)
	confPath := filepath.Join(dataDir, configFileName)
	if _, err := os.Stat(confPath); err == nil {
		chk.E(conf.Load(confPath))
		// flags already parsed win over the stored file
		arg.MustParse(conf)
	} else {
		chk.E(conf.Save(confPath))
	}
	if len(conf.AllowedKinds) == 0 {
		conf.AllowedKinds = app.DefaultKinds
	}
	inf := &relayinfo.T{
		Name:        conf.Name,
		Description: conf.Description,
		PubKey:      conf.Pubkey,
		Contact:     conf.Contact,
		Icon:        conf.Icon,
	}
	c, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	rl := app.NewRelay(c, cancel, inf, conf)
	store := &badger.Backend{Path: filepath.Join(dataDir, "events")}
	if err := store.Init(); chk.F(err) {
		os.Exit(1)
	}
	defer store.Close()
	rl.StoreEvent = append(rl.StoreEvent, store.SaveEvent)
	rl.QueryEvents = append(rl.QueryEvents, store.QueryEvents)
	rl.CountEvents = append(rl.CountEvents, store.CountEvents)
	rl.DeleteEvent = append(rl.DeleteEvent, store.DeleteEvent)
	go func() {
		<-c.Done()
		rl.Shutdown()
	}()
	if err := rl.Start(); chk.E(err) {
		os.Exit(1)
	}
	rl.WG.Wait()
}

// profileDir resolves and creates the data directory for a profile under
// the user's home directory.
func profileDir(profile string) string {
	home, err := os.UserHomeDir()
	if chk.E(err) {
		home = "."
	}
	dir := filepath.Join(home, "."+profile)
	chk.E(os.MkdirAll(dir, 0700))
	return dir
}
