package cmd

import (
	"context"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"emosense/internal/capture"
	"emosense/internal/config"
	"emosense/internal/store"
)

var (
	capturePatientId int
	captureUsername  string
	capturePassword  string
	captureNotes     string
)

var captureCommand = &cobra.Command{
	Use:   "capture",
	Short: "Run a webcam capture session",
	Long: `Opens the configured camera, classifies one frame per interval
through the API, and saves the finished session. If the API is unreachable
at save time the session is kept in the local store.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCapture()
	},
}

func runCapture() {
	conf, err := config.InitConfig(configFile)
	if err != nil {
		logrus.Fatal("initConfig error, ", err.Error())
	}
	if capturePatientId <= 0 {
		logrus.Fatal("--patient is required")
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	client := capture.NewClient(conf.Capture.ServerAddr, conf.Capture.Token)
	if captureUsername != "" {
		if _, err := client.Login(ctx, captureUsername, capturePassword); err != nil {
			logrus.Fatalf("login failed: %s", err.Error())
		}
	}

	profile, err := client.GetProfile(ctx)
	if err != nil {
		logrus.Fatalf("get profile failed: %s", err.Error())
	}
	patient, err := client.GetPatient(ctx, capturePatientId)
	if err != nil {
		logrus.Fatalf("get patient %d failed: %s", capturePatientId, err.Error())
	}

	source, err := capture.NewWebcamSource(conf.Capture.CameraId)
	if err != nil {
		logrus.Fatalf("open camera failed: %s", err.Error())
	}
	defer source.Close()

	fallback, err := store.NewSessionStore(path.Join(conf.Capture.DataDir, "sessions"))
	if err != nil {
		logrus.Fatalf("open local store failed: %s", err.Error())
	}
	defer fallback.Close()

	recorder := capture.NewRecorder(client, fallback)
	if len(conf.NSQ.Addrs) > 0 {
		producer, err := nsq.NewProducer(conf.NSQ.Addrs[0], nsq.NewConfig())
		if err != nil {
			logrus.Fatalf("new NSQ producer failed: %s", err.Error())
		}
		defer producer.Stop()
		recorder = recorder.WithPublisher(producer, conf.NSQ.Topic)
	}

	agg := capture.NewAggregator()
	interval := time.Duration(conf.Capture.IntervalMs) * time.Millisecond
	loop := capture.NewLoop(ctx, source, client, agg, interval)
	loop.Start()
	logrus.Infof("capturing for patient %s %s, press Ctrl-C to finish",
		patient.FirstName, patient.LastName)

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	<-termChan

	loop.Stop()
	aggregate := agg.Finalize()
	logrus.Infof("captured %d samples, predominant emotion %s, duration %s",
		aggregate.SampleCount, aggregate.PredominantEmotion, aggregate.Duration)

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer saveCancel()
	result, err := recorder.Save(saveCtx, &capture.SaveRequest{
		PatientId:        capturePatientId,
		PsychologistId:   profile.Id,
		PatientName:      patient.FirstName + " " + patient.LastName,
		PatientAge:       patient.Age,
		PatientGender:    patient.Gender,
		PsychologistName: profile.FullName,
		Notes:            captureNotes,
	}, aggregate)
	if err != nil {
		logrus.Fatalf("save session failed: %s", err.Error())
	}

	if result.Fallback {
		logrus.Warnf("API unreachable, session %s kept in the local store", result.Uuid)
		if rec, err := fallback.FindById(result.Uuid); err == nil && rec != nil {
			view := rec.Source().Normalize()
			logrus.Infof("local record: patient=%s predominant=%s duration=%s confidence=%.2f",
				view.PatientName, view.PredominantEmotion, view.Duration, view.AvgConfidence)
		}
	} else {
		logrus.Infof("session %d saved, %d sample uploads failed", result.SessionId, result.AppendErrors)
	}
}

func init() {
	captureCommand.Flags().IntVarP(&capturePatientId, "patient", "p", 0, "Patient id the session belongs to")
	captureCommand.Flags().StringVarP(&captureUsername, "username", "u", "", "Login with this username instead of a configured token")
	captureCommand.Flags().StringVar(&capturePassword, "password", "", "Password for --username")
	captureCommand.Flags().StringVarP(&captureNotes, "notes", "n", "", "Session notes")
}
