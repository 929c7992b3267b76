package config

const defaultSqlDsn = "root:123456@tcp(127.0.0.1:3306)/emosense?charset=utf8mb4&parseTime=True&loc=Local"

type DBConfig struct {
	DSN          string `yaml:"dsn"`
	MaxIdleConns int    `yaml:"maxIdleConns"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
	MaxLifetime  int    `yaml:"maxLifetime"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	Region          string `yaml:"region"`
}

type TritonConfig struct {
	Addr      string  `yaml:"addr"`
	ModelName string  `yaml:"modelName"`
	Version   string  `yaml:"version"`
	Threshold float32 `yaml:"threshold"`
}

type NSQConfig struct {
	Addrs   []string `yaml:"addrs"`
	Topic   string   `yaml:"topic"`
	Channel string   `yaml:"channel"`
}

type CaptureConfig struct {
	ServerAddr string `yaml:"serverAddr"`
	Token      string `yaml:"token"`
	CameraId   int    `yaml:"cameraId"`
	// IntervalMs is the frame sampling period in milliseconds.
	IntervalMs int    `yaml:"intervalMs"`
	DataDir    string `yaml:"dataDir"`
}

type Config struct {
	Addr      string        `yaml:"addr"`
	SSLCert   string        `yaml:"sslCert"`
	SSLKey    string        `yaml:"sslKey"`
	JwtSecret string        `yaml:"jwtSecret"`
	DB        DBConfig      `yaml:"db"`
	S3        S3Config      `yaml:"s3"`
	Triton    TritonConfig  `yaml:"triton"`
	NSQ       NSQConfig     `yaml:"nsq"`
	Capture   CaptureConfig `yaml:"capture"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr: "127.0.0.1:8081",
		DB: DBConfig{
			DSN:          defaultSqlDsn,
			MaxIdleConns: 100,
			MaxOpenConns: 1000,
			MaxLifetime:  60,
		},
		S3: S3Config{
			Bucket:   "emosense",
			Endpoint: "127.0.0.1:9000",
			UseSSL:   false,
			Region:   "us-east-1",
		},
		Triton: TritonConfig{
			Addr:      "127.0.0.1:8000",
			ModelName: "emotion",
			Version:   "1",
			Threshold: 0.5,
		},
		NSQ: NSQConfig{
			Topic:   "emosense.samples",
			Channel: "server",
		},
		Capture: CaptureConfig{
			ServerAddr: "http://127.0.0.1:8081",
			IntervalMs: 500,
			DataDir:    "/var/lib/emosense",
		},
	}
}
