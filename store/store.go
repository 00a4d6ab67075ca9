package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	log "github.com/sirupsen/logrus"

	"hydro/model"
)

// 固定的存储键，对应浏览器本地存储中的 key
const StorageKey = "hydraulic-calculator-state"

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

var ErrInvalidID = errors.New("invalid session id")

// Store 每个会话一个目录，目录下保存 StorageKey 对应的 json 快照
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func ValidID(id string) bool {
	return validID.MatchString(id)
}

func (s *Store) path(id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id, StorageKey+".json"), nil
}

func (s *Store) Save(id string, snap model.Snapshot) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	// 先写临时文件再改名，避免留下半个快照
	tmp := p + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Load 读取快照；不存在或损坏时返回 false，损坏的快照直接丢弃
func (s *Store) Load(id string) (model.Snapshot, bool) {
	p, err := s.path(id)
	if err != nil {
		log.WithField("session", id).Warn("会话编号不合法，使用默认值")
		return model.Snapshot{}, false
	}
	data, err := ioutil.ReadFile(p)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithFields(log.Fields{"session": id, "err": err}).Warn("读取会话快照失败")
		}
		return model.Snapshot{}, false
	}
	var snap model.Snapshot
	err = json.Unmarshal(data, &snap)
	if err == nil {
		err = snap.Check()
	}
	if err != nil {
		log.WithFields(log.Fields{"session": id, "err": err}).Warn("会话快照损坏，已丢弃")
		if err := os.Remove(p); err != nil {
			log.WithFields(log.Fields{"session": id, "err": err}).Debug("删除损坏快照失败")
		}
		return model.Snapshot{}, false
	}
	return snap, true
}

func (s *Store) Clear(id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
