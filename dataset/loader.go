package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"git.fiblab.net/general/common/v2/mongoutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNoMongo  = errors.New("mongo uri is required for collection paths")
	ErrNotFound = errors.New("dataset is empty")
)

// Loader 从文件或mongo读取数据集，mongo连接按需建立
type Loader struct {
	mongoURI string

	mu     sync.Mutex
	client *mongo.Client
}

func NewLoader(mongoURI string) *Loader {
	return &Loader{mongoURI: mongoURI}
}

func (l *Loader) coll(p *Path) (*mongo.Collection, error) {
	if l.mongoURI == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoMongo, p)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client == nil {
		l.client = mongoutil.NewClient(l.mongoURI)
	}
	return l.client.Database(p.GetDb()).Collection(p.GetColl()), nil
}

// Close 断开mongo连接
func (l *Loader) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client == nil {
		return nil
	}
	err := l.client.Disconnect(ctx)
	l.client = nil
	return err
}

func readJSON(file string, v any) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}
	return nil
}

// 读取集合中全部文档
func findAll[T any](ctx context.Context, l *Loader, p *Path, opts ...*options.FindOptions) ([]T, error) {
	coll, err := l.coll(p)
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.D{}, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", p, err)
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	log.Debugf("loaded %d documents from %s", len(out), p)
	return out, nil
}

// 读取集合中的单个文档
func findOne[T any](ctx context.Context, l *Loader, p *Path) (T, error) {
	var out T
	coll, err := l.coll(p)
	if err != nil {
		return out, err
	}
	if err := coll.FindOne(ctx, bson.D{}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return out, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return out, fmt.Errorf("decode %s: %w", p, err)
	}
	return out, nil
}

// 文件按JSON读取整体，集合按文档列表读取
func load[T any](ctx context.Context, l *Loader, p *Path, opts ...*options.FindOptions) ([]T, error) {
	if p.IsFile() {
		out := make([]T, 0)
		if err := readJSON(p.File, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return findAll[T](ctx, l, p, opts...)
}
