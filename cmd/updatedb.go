package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"emosense/internal/config"
	"emosense/internal/model"
)

var insertDemoData bool

var updateDBCommand = &cobra.Command{
	Use:   "updatedb",
	Short: "Migrate the psychologist, patient and session tables",
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := config.InitConfig(configFile)
		if err != nil {
			logrus.Fatal("initConfig error, ", err.Error())
		}

		db, err := model.InitDB(conf.DB)
		if err != nil {
			logrus.Fatal("failed to init database", err)
		}
		defer func() {
			sqlDb, _ := db.DB()
			sqlDb.Close()
		}()

		if err := model.AutoMigrate(db); err != nil {
			logrus.Fatal("failed to migrate database", err)
		}
		logrus.Info("psychologist, patient, session and emotion tables migrated")

		if insertDemoData {
			if err := model.InsertTestData(db); err != nil {
				logrus.Fatal("failed to insert demo data", err)
			}
			logrus.Info("demo psychologist and patient inserted")
		}
	},
}

func init() {
	updateDBCommand.Flags().BoolVarP(&insertDemoData, "insert-test-data", "t", false, "Insert a demo psychologist and patient")
}
