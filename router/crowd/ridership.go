package crowd

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RidershipRow 某一天各线路（列）的客流
type RidershipRow struct {
	Date   string
	Counts map[string]float64
}

// UnmarshalJSON 兼容数字与字符串形式的客流值
func (r *RidershipRow) UnmarshalJSON(data []byte) error {
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = RowFromMap(raw)
	return nil
}

// RowFromMap 由任意来源的键值对构造客流行，无法解析的值忽略
func RowFromMap(raw map[string]any) RidershipRow {
	r := RidershipRow{Counts: make(map[string]float64, len(raw))}
	for k, v := range raw {
		if k == "date" {
			r.Date, _ = v.(string)
			continue
		}
		switch x := v.(type) {
		case float64:
			r.Counts[k] = x
		case int32:
			r.Counts[k] = float64(x)
		case int64:
			r.Counts[k] = float64(x)
		case int:
			r.Counts[k] = float64(x)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				r.Counts[k] = f
			}
		}
	}
	return r
}

// Ridership 客流快照，最后一行为最新一天
type Ridership []RidershipRow

// Latest 最新一天指定列的日客流
func (r Ridership) Latest(column string) (float64, bool) {
	if len(r) == 0 || column == "" {
		return 0, false
	}
	v, ok := r[len(r)-1].Counts[column]
	return v, ok
}
