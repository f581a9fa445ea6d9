package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"git.fiblab.net/sim/tripplanner/router/fare"
)

// 票价表缺失时返回空表，由解析链回退
func (l *Loader) FareTables(ctx context.Context, p *Path) (fare.Tables, error) {
	if p == nil {
		log.Debug("no fare tables configured")
		return fare.Tables{}, nil
	}
	if p.IsFile() {
		data, err := os.ReadFile(p.File)
		if err != nil {
			return fare.Tables{}, err
		}
		t, err := decodeFareTables(data)
		if err != nil {
			return fare.Tables{}, fmt.Errorf("decode %s: %w", p, err)
		}
		return t, nil
	}
	return findOne[fare.Tables](ctx, l, p)
}

// 兼容无lines包装的扁平格式 {LINE: {"FROM||TO": fare}}
func decodeFareTables(data []byte) (fare.Tables, error) {
	var t fare.Tables
	if err := json.Unmarshal(data, &t); err != nil {
		return fare.Tables{}, err
	}
	if len(t.Lines) > 0 || len(t.CrossLines) > 0 {
		return t, nil
	}
	var flat map[string]fare.Table
	if err := json.Unmarshal(data, &flat); err != nil {
		// 既非包装格式也非扁平格式，视为空表
		log.Warnf("unrecognized fare table layout: %v", err)
		return fare.Tables{}, nil
	}
	delete(flat, "lines")
	delete(flat, "cross_lines")
	if len(flat) > 0 {
		t.Lines = flat
	}
	return t, nil
}

// 兼容 {ok, model} 包装格式
type modelEnvelope struct {
	OK    *bool       `json:"ok" bson:"ok"`
	Model *fare.Model `json:"model" bson:"model"`
}

func decodeFareModel(data []byte) (fare.Model, error) {
	var env modelEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Model != nil {
		if env.OK != nil && !*env.OK {
			return fare.Model{}, fmt.Errorf("%w: fare model marked not ok", ErrNotFound)
		}
		return *env.Model, nil
	}
	var m fare.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return fare.Model{}, err
	}
	return m, nil
}

func (l *Loader) FareModel(ctx context.Context, p *Path) (fare.Model, error) {
	if p == nil {
		log.Debug("no fare model configured")
		return fare.Model{}, nil
	}
	if p.IsFile() {
		data, err := os.ReadFile(p.File)
		if err != nil {
			return fare.Model{}, err
		}
		m, err := decodeFareModel(data)
		if err != nil {
			return fare.Model{}, fmt.Errorf("decode %s: %w", p, err)
		}
		return m, nil
	}
	env, err := findOne[modelEnvelope](ctx, l, p)
	if err == nil && env.Model != nil {
		return *env.Model, nil
	}
	return findOne[fare.Model](ctx, l, p)
}
