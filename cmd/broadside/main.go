package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/navsim/broadside/internal/config"
	"github.com/navsim/broadside/internal/database"
	"github.com/navsim/broadside/internal/fetch"
	"github.com/navsim/broadside/internal/fleet"
	"github.com/navsim/broadside/internal/influx"
	"github.com/navsim/broadside/internal/logging"
	"github.com/navsim/broadside/internal/parser"
	"github.com/navsim/broadside/internal/queue"
	"github.com/navsim/broadside/internal/scrape"
	"github.com/navsim/broadside/internal/sim"
	"github.com/navsim/broadside/pkg/core"
)

type app struct {
	logger  *slog.Logger
	zlogger zerolog.Logger
	store   *fleet.Store
	metrics *influx.Manager
}

func main() {
	if err := config.Load("."); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logManager := logging.NewManager()
	graylogAddr := ""
	if config.GetBool("graylog.enabled") {
		graylogAddr = config.GetString("graylog.address")
	}
	if err := logManager.Setup(config.GetString("logLevel"), config.GetString("logsDir"), graylogAddr); err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer logManager.Close()
	logger := logManager.Logger()

	zlogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	a := &app{logger: logger, zlogger: zlogger}
	if err := a.run(os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: broadside <command> [args]

commands:
  ingest                      scrape, parse and cache the whole fleet
  matchups [name]             count possible battles, optionally for one ship
  volley <attacker> <target>  run azimuth-sweep volleys between two cached ships`)
}

func (a *app) run(command string, args []string) error {
	if err := a.openFleet(); err != nil {
		return err
	}
	a.openMetrics()

	switch strings.ToLower(command) {
	case "ingest":
		return a.runIngest()
	case "matchups":
		return a.runMatchups(args)
	case "volley":
		return a.runVolley(args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// openFleet connects the fleet cache database and migrates its schema.
func (a *app) openFleet() error {
	db := database.NewManager(a.zlogger)
	if err := db.Connect(); err != nil {
		return fmt.Errorf("connecting fleet database: %w", err)
	}
	if err := db.Setup(fleet.DatabaseModels...); err != nil {
		return fmt.Errorf("migrating fleet database: %w", err)
	}
	a.store = fleet.NewStore(db.DB, a.zlogger)
	return nil
}

// openMetrics connects InfluxDB when enabled; stats are optional.
func (a *app) openMetrics() {
	if !config.GetBool("influx.enabled") {
		return
	}
	manager := influx.NewManager(a.zlogger, "./influx_backup.gz")
	if err := manager.Connect(); err != nil {
		a.logger.Warn("influx unavailable, stats disabled", "error", err)
		return
	}
	a.metrics = manager
}

// runIngest walks every nation listing, then drains the collected vehicle
// identifiers with a small worker pool. Downloads dominate the runtime and
// are independent per vehicle; saves are serialized through a mutex since
// the SQLite fallback dislikes concurrent writers.
func (a *app) runIngest() error {
	client, err := fetch.New(
		config.GetString("fetch.cacheDir"),
		time.Duration(config.GetInt("fetch.timeoutSeconds"))*time.Second,
		a.logger,
	)
	if err != nil {
		return err
	}
	baseURL := config.GetString("fetch.baseUrl")
	p := parser.New(client, baseURL, a.logger)

	pending := queue.New[string]()
	for _, country := range scrape.Countries {
		page, err := client.Get(baseURL + "/vehicles/" + country + "/")
		if err != nil {
			return fmt.Errorf("fetching ship list for %s: %w", country, err)
		}
		ids, err := scrape.ShipIDs(page, a.logger)
		if err != nil {
			return fmt.Errorf("scraping ship list for %s: %w", country, err)
		}
		a.logger.Info("queued nation", "country", country, "ships", len(ids))
		pending.Push(ids...)
	}

	workers := config.GetInt("sim.workers")
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ingested, skipped, failed := 0, 0, 0
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				id, ok := pending.TryPop()
				if !ok {
					return
				}

				ship, err := p.Vehicle(id)
				if errors.Is(err, parser.ErrUnsupportedClass) {
					mu.Lock()
					skipped++
					mu.Unlock()
					continue
				}
				if err != nil {
					a.logger.Warn("failed to ingest vehicle", "id", id, "error", err)
					mu.Lock()
					failed++
					mu.Unlock()
					continue
				}

				mu.Lock()
				err = a.store.Save(id, ship)
				if err == nil {
					ingested++
				}
				mu.Unlock()
				if err != nil {
					a.logger.Error("failed to save vehicle", "id", id, "error", err)
					continue
				}

				if a.metrics != nil {
					faces := 0
					for _, cfg := range ship.Configurations {
						faces += len(cfg.Geometry)
					}
					point := influx.IngestionPoint(id, ship, faces)
					if err := a.metrics.WritePoint(context.Background(), "ingestion_stats", point); err != nil {
						a.logger.Warn("failed to write ingestion stats", "error", err)
					}
				}
			}
		}()
	}
	wg.Wait()

	a.logger.Info("ingestion complete", "ingested", ingested, "skipped", skipped, "failed", failed)
	return nil
}

// runMatchups counts how many battles the matchmaker allows across the
// cached fleet, or for one named ship.
func (a *app) runMatchups(args []string) error {
	ships, err := a.store.LoadAll()
	if err != nil {
		return err
	}
	if len(ships) == 0 {
		return errors.New("fleet cache is empty, run ingest first")
	}

	if len(args) > 0 {
		matches, err := a.store.FindByName(args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no cached ship matches %q", args[0])
		}
		subject := matches[0]

		total := 0
		for _, other := range ships {
			if fleet.CanBattle(other, subject) {
				total++
				a.logger.Info("can battle with", "name", other.Name, "tier", other.Tier)
			}
		}
		a.logger.Info("matchup count", "name", subject.Name, "battles", total)
		return nil
	}

	total := 0
	for _, shipA := range ships {
		for _, shipB := range ships {
			if fleet.CanBattle(shipA, shipB) {
				total++
			}
		}
	}
	a.logger.Info("possible battles across fleet", "ships", len(ships), "battles", total)
	return nil
}

// runVolley sweeps a full circle of volleys from attacker to target at the
// configured range.
func (a *app) runVolley(args []string) error {
	if len(args) < 2 {
		return errors.New("volley needs <attackerID> <targetID> [range]")
	}
	attacker, err := a.store.Load(args[0])
	if err != nil {
		return err
	}
	target, err := a.store.Load(args[1])
	if err != nil {
		return err
	}

	rangeM := config.GetFloat("sim.range")
	if len(args) > 2 {
		if rangeM, err = strconv.ParseFloat(args[2], 64); err != nil {
			return fmt.Errorf("invalid range %q: %w", args[2], err)
		}
	}

	mount, err := firstArmedMount(attacker)
	if err != nil {
		return err
	}
	if len(target.Configurations) == 0 {
		return fmt.Errorf("%s has no hull configurations", target.Name)
	}
	targetConfig := &target.Configurations[0]
	ammo := mount.Ammo[0]

	evaluator, err := sim.New(a.logger)
	if err != nil {
		return err
	}

	shots := config.GetInt("sim.volleyShots")
	workers := config.GetInt("sim.workers")
	seed := int64(config.GetInt("sim.seed"))

	start := time.Now()
	for i := 0; i < 36; i++ {
		azimuth := float64(i) * 10.0
		result := evaluator.EvaluateVolleyConcurrent(shots, workers, mount.Dispersion, ammo,
			targetConfig, rangeM, azimuth, core.Vec3{}, seed+int64(i))

		a.logger.Info("volley",
			"azimuth", azimuth,
			"meanDamage", result.MeanDamage,
			"misses", result.Outcomes[core.Miss],
			"penetrations", result.Outcomes[core.Penetration])

		if a.metrics != nil {
			point := influx.VolleyPoint(attacker.Name, target.Name, rangeM, azimuth, result)
			if err := a.metrics.WritePoint(context.Background(), "volley_stats", point); err != nil {
				a.logger.Warn("failed to write volley stats", "error", err)
			}
		}
	}

	elapsed := time.Since(start)
	totalShots := 36 * shots
	a.logger.Info("sweep complete",
		"shots", totalShots,
		"elapsed", elapsed,
		"shotsPerSecond", float64(totalShots)/elapsed.Seconds())
	return nil
}

// firstArmedMount finds the first hull configuration that actually carries
// artillery with ammunition.
func firstArmedMount(ship *core.Ship) (*core.GunMount, error) {
	for i := range ship.Configurations {
		for j := range ship.Configurations[i].Artillery {
			mount := &ship.Configurations[i].Artillery[j]
			if len(mount.Ammo) > 0 {
				return mount, nil
			}
		}
	}
	return nil, fmt.Errorf("%s has no armed artillery mount", ship.Name)
}
