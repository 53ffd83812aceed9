package output

import (
	"context"
	"fmt"
	"time"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoTimeout  = 30 * time.Second // 单次数据库操作的超时时间
	metaColSuffix = "_meta"          // 走廊描述所在集合的后缀
)

// frameInserter 批量写入接口，由*mongo.Collection实现
type frameInserter interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// MongoRecorder MongoDB输出
// 功能：将每步的帧按批写入MongoDB集合，每帧一个文档
// 说明：同一任务名重复运行时会先删除旧数据
type MongoRecorder struct {
	client *mongo.Client
	coll   frameInserter
	batch  int
	buffer []interface{}
}

// NewMongoRecorder 创建MongoDB输出
// 功能：连接数据库，清理同名任务的旧数据，建立索引并写入走廊描述
// 参数：c-MongoDB输出配置，meta-走廊描述
// 返回：MongoDB输出实例或错误
func NewMongoRecorder(c config.MongoOutput, meta Meta) (*MongoRecorder, error) {
	if c.URI == "" {
		return nil, fmt.Errorf("mongo output: empty uri")
	}
	if c.DB == "" || c.Col == "" {
		return nil, fmt.Errorf("mongo output: db and col must be specified")
	}
	client := mongoutil.NewClient(c.URI)
	db := client.Database(c.DB)
	coll := db.Collection(c.Col)

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	if res, err := coll.DeleteMany(ctx, bson.M{"job": meta.Job}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo output: clean job %s: %w", meta.Job, err)
	} else if res.DeletedCount > 0 {
		log.Warnf("delete %d old frames of job %s in %s.%s", res.DeletedCount, meta.Job, c.DB, c.Col)
	}
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "job", Value: 1}, {Key: "step", Value: 1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo output: create index: %w", err)
	}
	if _, err := db.Collection(c.Col+metaColSuffix).ReplaceOne(
		ctx, bson.M{"job": meta.Job}, meta, options.Replace().SetUpsert(true),
	); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo output: write meta: %w", err)
	}
	log.Infof("write frames to %s.%s", c.DB, c.Col)
	return newMongoRecorder(client, coll, c.Batch), nil
}

func newMongoRecorder(client *mongo.Client, coll frameInserter, batch int) *MongoRecorder {
	if batch <= 0 {
		batch = 1
	}
	return &MongoRecorder{
		client: client,
		coll:   coll,
		batch:  batch,
		buffer: make([]interface{}, 0, batch),
	}
}

// Record 缓存一帧，缓存满一批时写入
func (m *MongoRecorder) Record(frame *Frame) error {
	m.buffer = append(m.buffer, frame)
	if len(m.buffer) >= m.batch {
		return m.flush()
	}
	return nil
}

func (m *MongoRecorder) flush() error {
	if len(m.buffer) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	// 无序写入，单个文档失败不阻塞其他文档
	_, err := m.coll.InsertMany(ctx, m.buffer, options.InsertMany().SetOrdered(false))
	n := len(m.buffer)
	m.buffer = m.buffer[:0]
	if err != nil {
		return fmt.Errorf("mongo output: insert %d frames: %w", n, err)
	}
	log.Debugf("insert %d frames", n)
	return nil
}

// Close 写入剩余的帧并断开连接
func (m *MongoRecorder) Close() error {
	err := m.flush()
	if m.client != nil {
		if dErr := m.client.Disconnect(context.Background()); dErr != nil && err == nil {
			err = dErr
		}
	}
	return err
}
