package cmd

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"log"
	"log/slog"
	"os"
	"ru-ticket/common/contract"
	commonJs "ru-ticket/common/jetstream"
	"ru-ticket/common/otel"
	"ru-ticket/eligibility"
	"ru-ticket/model"
	"ru-ticket/outbound/extras"
	"ru-ticket/outbound/pix"
	"ru-ticket/outbound/ticketstore"
	"time"
)

const (
	defaultPixKey    = "+5541991159514"
	defaultPixName   = "RU UFMG"
	defaultPixCity   = "BELO HORIZONTE"
	defaultPixAmount = 0.01
)

func newCfg(name string) *viper.Viper {
	config := viper.New()

	config.SetConfigName(name)
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	config.SetDefault("server.port", 3000)
	config.SetDefault("server.timezone", "America/Sao_Paulo")
	config.SetDefault("store.driver", "postgres")
	config.SetDefault("store.timeout", "3s")
	config.SetDefault("extras.driver", "redis")
	config.SetDefault("extras.ttl", "18h")
	config.SetDefault("pix.key", defaultPixKey)
	config.SetDefault("pix.name", defaultPixName)
	config.SetDefault("pix.city", defaultPixCity)
	config.SetDefault("pix.amount", defaultPixAmount)
	config.SetDefault("client.base_url", "http://localhost:3000")
	config.SetDefault("client.poll_interval", "4s")
	config.SetDefault("client.profile_path", ".ru-ticket/profile.json")
	config.SetDefault("client.qr_dir", ".ru-ticket")

	err := config.ReadInConfig()
	if err != nil {
		log.Fatalln(err)
	}

	err = os.Setenv("TZ", config.GetString("server.timezone"))
	if err != nil {
		log.Fatalln(err)
	}

	return config
}

func newLogger(cfg *viper.Viper) {
	level := slog.Level(cfg.GetInt("log.level"))

	if cfg.GetString("log.format") == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return
	}

	slog.SetLogLoggerLevel(level)
}

func newOtel(ctx context.Context, cfg *viper.Viper) func(context.Context) error {
	shutdown, err := otel.Setup(ctx, otel.Config{
		Endpoint: cfg.GetString("otel.endpoint"),
		Insecure: cfg.GetBool("otel.insecure"),
	})
	if err != nil {
		log.Fatalln("unable to setup tracing", err)
	}

	return shutdown
}

func newDb(cfg *viper.Viper) *pgxpool.Pool {
	username := cfg.GetString("db.user")
	password := cfg.GetString("db.password")
	host := cfg.GetString("db.host")
	port := cfg.GetInt("db.port")
	database := cfg.GetString("db.name")
	maxConn := cfg.GetInt("db.pool.max")
	minConn := cfg.GetInt("db.pool.min")
	timezone := cfg.GetString("server.timezone")

	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?timezone=%s",
		username, password, host, port, database, timezone)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Fatalln(err)
	}

	if maxConn > 0 {
		config.MaxConns = int32(maxConn)
	}
	config.MinConns = int32(minConn)
	config.ConnConfig.Tracer = &otel.PgxCustomTracer{}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalln(err)
	}

	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatalln(err)
	}

	return pool
}

func newRedis(cfg *viper.Viper) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       cfg.GetInt("redis.db"),
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		log.Fatalln(err)
	}

	return rdb
}

func newNats(viper *viper.Viper) *nats.Conn {
	conn, err := nats.Connect(viper.GetString("nats.addr"))
	if err != nil {
		log.Fatalln(err)
	}

	return conn
}

func newJs(conn *nats.Conn) jetstream.JetStream {
	js, err := jetstream.New(conn)
	if err != nil {
		log.Fatalln(err)
	}

	return js
}

func createStreamWorkQueue(ctx context.Context, cfg *viper.Viper, js jetstream.JetStream) jetstream.Stream {
	st, err := commonJs.CreateQueueStream(ctx, js, cfg.GetInt64("nats.stream.max_bytes"))
	if err != nil {
		log.Fatalln("failed to create stream", err)
	}

	return st
}

// newPublisher connects to JetStream when nats.addr is set. Without it events
// are not published and the returned publisher is nil.
func newPublisher(ctx context.Context, cfg *viper.Viper) (commonJs.Publisher, func()) {
	if cfg.GetString("nats.addr") == "" {
		slog.WarnContext(ctx, "nats.addr not set, ticket events will not be published")
		return nil, func() {}
	}

	natsConn := newNats(cfg)
	js := newJs(natsConn)
	createStreamWorkQueue(ctx, cfg, js)

	return js, natsConn.Close
}

func newTicketStore(cfg *viper.Viper) (contract.TicketStore, func()) {
	switch driver := cfg.GetString("store.driver"); driver {
	case "memory":
		slog.Warn("using in-memory ticket store, tickets are lost on restart")
		return ticketstore.NewMemory(), func() {}
	case "postgres":
		db := newDb(cfg)
		return ticketstore.NewPostgres(db, cfg.GetDuration("store.timeout")), db.Close
	default:
		log.Fatalf("unknown store.driver %q", driver)
		return nil, nil
	}
}

func newExtrasStore(cfg *viper.Viper) (contract.ExtrasStore, func()) {
	switch driver := cfg.GetString("extras.driver"); driver {
	case "memory":
		return extras.NewMemory(cfg.GetInt("extras.capacity")), func() {}
	case "redis":
		cacheClient := newRedis(cfg)
		return extras.NewRedis(cacheClient, cfg.GetDuration("extras.ttl")), func() { cacheClient.Close() }
	default:
		log.Fatalf("unknown extras.driver %q", driver)
		return nil, nil
	}
}

func newPixGenerator(cfg *viper.Viper) *pix.Generator {
	amount := model.MoneyFromFloat(cfg.GetFloat64("pix.amount"))
	if amount <= 0 {
		log.Fatalln("pix.amount must be positive")
	}

	return pix.NewGenerator(pix.Receiver{
		Key:  cfg.GetString("pix.key"),
		Name: cfg.GetString("pix.name"),
		City: cfg.GetString("pix.city"),
	}, amount)
}

func newEngine(cfg *viper.Viper, devMode bool) *eligibility.Engine {
	location, err := time.LoadLocation(cfg.GetString("server.timezone"))
	if err != nil {
		slog.Warn("unknown server.timezone, using local time", slog.String("timezone", cfg.GetString("server.timezone")))
	}

	return eligibility.NewEngine(nil, location, devMode || cfg.GetBool("eligibility.dev_mode"))
}
