package main

import (
	"context"
	"imgresize/internal/adapters/blob"
	"imgresize/internal/adapters/converter"
	"imgresize/internal/adapters/engine"
	"imgresize/internal/adapters/file"
	"imgresize/internal/adapters/handler"
	"imgresize/internal/adapters/probe"
	"imgresize/internal/adapters/sender"
	"imgresize/internal/adapters/store"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/domain/command"
	"imgresize/internal/core/port"
	"imgresize/internal/core/service"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting imgresize...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")
	setDefaults()

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	commandRegistry := &command.Registry{}
	commandHandler := handler.NewCommand(commandRegistry, handlerTimeout)

	b, err := bot.New(viper.GetString("telegram.bot_token"), bot.WithDefaultHandler(commandHandler.Handle))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegram(b)

	auth, err := service.NewAuthorizer(s)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing authorizer")
	}

	downloader := file.NewDownloader()
	blobs := blob.NewRegistry()

	resizeEngine, err := newResizeEngine()
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing resize engine")
	}

	imageStore, err := newStore(ctx)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing store")
	}

	sessions := service.NewSessions(ctx,
		blobs,
		probe.NewDecoder(blobs, file.DiskReader{}, downloader),
		service.NewEncoder(file.DiskReader{}, downloader),
		resizeEngine,
		imageStore)
	defer sessions.Close()

	commandRegistry.Register(command.NewAdd(sessions, s, auth, "/add"))
	commandRegistry.Register(command.NewUpload(sessions, downloader, s, auth, handler.UploadCommand))
	commandRegistry.Register(command.NewRemove(sessions, s, auth, "/remove"))
	commandRegistry.Register(command.NewClear(sessions, s, auth, "/clear"))
	commandRegistry.Register(command.NewList(sessions, s, auth, "/list"))
	commandRegistry.Register(command.NewSize(sessions, s, auth, "/size"))
	commandRegistry.Register(command.NewResize(sessions, s, auth, "/resize"))
	commandRegistry.Register(command.NewStatus(sessions, s, "/status"))

	if dir := viper.GetString("inbox.directory"); dir != "" {
		inbox, err := file.NewInbox(dir)
		if err != nil {
			log.Panic().Err(err).Msg("failed initializing inbox")
		}
		log.Info().Str("dir", dir).Msg("using inbox directory")
		commandRegistry.Register(command.NewPick(sessions, inbox, s, auth, "/pick"))
	}

	log.Info().Strs("commands", commandRegistry.ListCommands()).Msg("bot listening")
	b.Start(ctx)
}

func setDefaults() {
	viper.SetDefault("bot.log_level", "info")
	viper.SetDefault("handler.timeout", "2m")
	viper.SetDefault("session.idle_timeout", "30m")
	viper.SetDefault("fetch.max_concurrency", 8)
	viper.SetDefault("fetch.timeout", "30s")
	viper.SetDefault("resize.engine", "local")
	viper.SetDefault("resize.quality", converter.DefaultQuality)
	viper.SetDefault("resize.max_dimension", domain.DefaultMaxDimension)
	viper.SetDefault("resize.remote_timeout", "1m")
	viper.SetDefault("store.kind", "directory")
	viper.SetDefault("store.directory", "./resized")
	viper.SetDefault("store.s3.region", "us-east-1")
	viper.SetDefault("store.s3.prefix", "resized")
}

func newResizeEngine() (port.ResizeEngine, error) {
	switch viper.GetString("resize.engine") {
	case "remote":
		log.Info().Str("url", viper.GetString("resize.remote_url")).Msg("using remote resize engine")
		return engine.NewRemote(viper.GetString("resize.remote_url"))
	default:
		log.Info().Msg("using local resize engine")
		return converter.NewImagingEngine(), nil
	}
}

func newStore(ctx context.Context) (port.Store, error) {
	switch viper.GetString("store.kind") {
	case "s3":
		log.Info().Str("bucket", viper.GetString("store.s3.bucket")).Msg("using s3 store")
		return store.NewS3(ctx, store.S3Config{
			Region:       viper.GetString("store.s3.region"),
			AccessKey:    viper.GetString("store.s3.access_key"),
			SecretKey:    viper.GetString("store.s3.secret_key"),
			BaseEndpoint: viper.GetString("store.s3.endpoint"),
			Bucket:       viper.GetString("store.s3.bucket"),
			Prefix:       viper.GetString("store.s3.prefix"),
			PathStyle:    viper.GetBool("store.s3.path_style"),
		})
	default:
		log.Info().Str("dir", viper.GetString("store.directory")).Msg("using directory store")
		return store.NewDirectory(viper.GetString("store.directory"))
	}
}
