package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"emosense/internal/config"
	"emosense/internal/consumer"
	"emosense/internal/model"
	"emosense/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the emosense API server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func runServe() {
	conf, err := config.InitConfig(configFile)
	if err != nil {
		logrus.Fatal("initConfig error, ", err.Error())
	}

	db, err := model.InitDB(conf.DB)
	if err != nil {
		logrus.Fatal("failed to init database", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	ctx, cancelFunc := context.WithCancel(context.Background())

	srv, err := server.NewServer(ctx, conf)
	if err != nil {
		cancelFunc()
		logrus.Fatalf("newServer error, %s", err.Error())
		return
	}
	go srv.Start()

	var sampleConsumer *consumer.Consumer
	if len(conf.NSQ.Addrs) > 0 {
		sampleConsumer, err = consumer.NewConsumer(&conf.NSQ)
		if err != nil {
			logrus.Fatalf("newConsumer error, %s", err.Error())
		}
		if err := sampleConsumer.Start(); err != nil {
			logrus.Fatalf("consumer start error, %s", err.Error())
		}
	}

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	<-termChan
	logrus.Infof("server is shutting down...")
	if sampleConsumer != nil {
		sampleConsumer.Stop()
	}
	srv.Shutdown()
	cancelFunc()
}
