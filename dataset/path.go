package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidPath = errors.New("invalid dataset path")

// Path 数据集位置：本地文件或mongo集合
type Path struct {
	File string
	DB   string
	Coll string
}

func NewPath(filePathOrColl string) (*Path, error) {
	s := strings.TrimSpace(filePathOrColl)
	if s == "" {
		return nil, nil
	}
	// 检查是否作为文件存在
	if _, err := os.Stat(s); err == nil {
		return &Path{File: s}, nil
	}
	// 带目录或常见扩展名的视为文件，读取时再报错
	switch strings.ToLower(filepath.Ext(s)) {
	case ".json", ".txt", ".csv":
		return &Path{File: s}, nil
	}
	if strings.ContainsRune(s, os.PathSeparator) {
		return &Path{File: s}, nil
	}
	splitted := strings.Split(s, ".")
	if len(splitted) != 2 || splitted[0] == "" || splitted[1] == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, s)
	}
	return &Path{
		DB:   splitted[0],
		Coll: splitted[1],
	}, nil
}

func (p *Path) IsFile() bool {
	return p.File != ""
}

func (p *Path) GetDb() string {
	return p.DB
}

func (p *Path) GetColl() string {
	return p.Coll
}

func (p *Path) String() string {
	if p == nil {
		return "<none>"
	}
	if p.File != "" {
		return p.File
	}
	return p.DB + "." + p.Coll
}
