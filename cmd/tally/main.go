package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"tally/internal/amqp"
	"tally/internal/audit"
	"tally/internal/cli"
	"tally/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentCLI)
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg.DBPath)
	defer store.Close()

	enc := cli.BuildEncryptor(logger, cfg)
	recorder, closeRecorder := cli.BuildRecorder(logger, cfg, func() (audit.Recorder, error) {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
	defer closeRecorder()

	app := &cli.App{
		Cfg:   cfg,
		Store: store,
		Enc:   enc,
		Audit: recorder,
		Log:   logger,
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	for _, c := range cli.Commands(app) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
