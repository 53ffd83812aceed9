package main

import (
	"encoding/base64"
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/highway-merge-sim/output"
	"github.com/tsinghua-fib-lab/highway-merge-sim/task"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
	"gopkg.in/yaml.v2"
)

var (
	// 模拟任务名，写入每一帧输出，为空则随机生成
	job = flag.String("job", "", "the name of the whole simulation task (empty means a random uuid)")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// .env文件路径，文件不存在时忽略
	envPath = flag.String("env", ".env", "dotenv file path")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "simulet")
)

// loadConfig 读取配置
// 说明：未出现在YAML中的字段保持默认值
func loadConfig() config.Config {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Warn("no config file or config data, use default config")
	}
	c := config.Default()
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	c.Output.Mongo.URI = os.ExpandEnv(c.Output.Mongo.URI)
	return c
}

// newRecorders 按配置创建输出
func newRecorders(c config.Config, meta output.Meta) output.Recorders {
	var recorders output.Recorders
	if c.Output.Mongo.URI != "" {
		m, err := output.NewMongoRecorder(c.Output.Mongo, meta)
		if err != nil {
			log.Panicf("mongo output err: %v", err)
		}
		recorders = append(recorders, m)
	}
	if c.Output.Websocket.Listen != "" {
		s := output.NewStreamRecorder(meta)
		if _, err := s.Serve(c.Output.Websocket.Listen); err != nil {
			log.Panicf("websocket output err: %v", err)
		}
		recorders = append(recorders, s)
	}
	if len(recorders) == 0 {
		log.Warn("no output configured, frames are discarded")
	}
	return recorders
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	if err := godotenv.Load(*envPath); err != nil {
		log.Debugf("skip dotenv %s: %v", *envPath, err)
	}

	c := loadConfig()
	if err := c.Validate(); err != nil {
		log.Panicf("config err: %v", err)
	}
	log.Infof("%+v", c)
	if *job == "" {
		*job = uuid.NewString()
	}

	t, err := task.NewContext(*job, c, newRecorders(c, task.Meta(*job, c)))
	if err != nil {
		log.Panicf("task init err: %v", err)
	}
	t.Run()
}
