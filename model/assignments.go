package model

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pkg/conv"
)

// SegmentTable 是离线批任务产出的客群分配表：客户 ID -> 客群标签。
// 两次批任务之间内容不更新（无增量），在线侧只读。
type SegmentTable struct {
	labels map[int64]int
}

// NewSegmentTable 用现成的分配关系构建只读表。
func NewSegmentTable(labels map[int64]int) *SegmentTable {
	copied := make(map[int64]int, len(labels))
	for id, seg := range labels {
		copied[id] = seg
	}
	return &SegmentTable{labels: copied}
}

// Lookup 查询客户的预计算客群标签。
func (t *SegmentTable) Lookup(userID int64) (int, bool) {
	if t == nil || t.labels == nil {
		return core.SegmentUnknown, false
	}
	seg, ok := t.labels[userID]
	if !ok {
		return core.SegmentUnknown, false
	}
	return seg, true
}

// Len 返回表中客户数。
func (t *SegmentTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.labels)
}

// LoadSegmentTableCSV 从批任务导出的 CSV 加载分配表。
// 只依赖 id / cluster 两列（按表头定位），其余列忽略；
// 文件缺失返回 UNAVAILABLE，调用方降级为无客群路径。
func LoadSegmentTableCSV(path string) (*SegmentTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: segment table: %v", err))
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: segment table header: %v", err))
	}

	idCol, clusterCol := -1, -1
	for i, name := range header {
		switch name {
		case "id", "user_id":
			idCol = i
		case "cluster", "segment":
			clusterCol = i
		}
	}
	if idCol < 0 || clusterCol < 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			"model: segment table missing id/cluster columns")
	}

	labels := make(map[int64]int)
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		id, err := strconv.ParseInt(rec[idCol], 10, 64)
		if err != nil {
			continue
		}
		seg, err := strconv.Atoi(rec[clusterCol])
		if err != nil {
			continue
		}
		labels[id] = seg
	}
	return &SegmentTable{labels: labels}, nil
}

// LoadSegmentTableFromStore 从 KeyValueStore 的 Hash 整表加载分配表。
// field 是客户 ID 字符串，value 是标签。
func LoadSegmentTableFromStore(ctx context.Context, kv core.KeyValueStore, key string) (*SegmentTable, error) {
	fields, err := kv.HGetAll(ctx, key)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeUnavailable,
			fmt.Sprintf("model: segment table: %v", err))
	}
	labels := make(map[int64]int, len(fields))
	for field, val := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		seg, err := strconv.Atoi(string(val))
		if err != nil {
			continue
		}
		labels[id] = seg
	}
	return &SegmentTable{labels: labels}, nil
}

// SaveToStore 把分配表写入 Hash（离线批任务用）。
func (t *SegmentTable) SaveToStore(ctx context.Context, kv core.KeyValueStore, key string) error {
	for id, seg := range t.labels {
		if err := kv.HSet(ctx, key, conv.FormatID(id), []byte(strconv.Itoa(seg))); err != nil {
			return err
		}
	}
	return nil
}
