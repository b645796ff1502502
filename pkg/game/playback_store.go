package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/animkit/pkg/animation"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const (
	playbackObject = "animator"
)

// ErrSnapshotNotFound 指定键没有保存过播放快照
var ErrSnapshotNotFound = errors.New("playback snapshot not found")

// PlaybackStore 播放进度存储
// 每个实体键对应 gdata 对象 "animator" 下的一个属性，内容为 YAML 编码的 animation.Snapshot
type PlaybackStore struct {
	gdataManager *gdata.Manager    // gdata 跨平台存储管理器，可为 nil（降级模式）
	memory       map[string][]byte // 降级模式下的内存存储
}

// NewPlaybackStore 创建播放进度存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅保存在内存中）
func NewPlaybackStore(gdataManager *gdata.Manager) *PlaybackStore {
	if gdataManager == nil {
		log.Printf("[PlaybackStore] No gdata manager, snapshots are kept in memory only")
	}
	return &PlaybackStore{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// Save 保存快照
func (s *PlaybackStore) Save(key string, snap animation.Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", key, err)
	}

	if s.gdataManager == nil {
		s.memory[key] = data
		return nil
	}
	if err := s.gdataManager.SaveObjectProp(playbackObject, key, data); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}

	log.Printf("[PlaybackStore] Saved snapshot %s (%s, frame %d)", key, snap.State, snap.Frame)
	return nil
}

// Load 读取快照
// 不存在时返回 ErrSnapshotNotFound
func (s *PlaybackStore) Load(key string) (animation.Snapshot, error) {
	var snap animation.Snapshot
	if err := validateKey(key); err != nil {
		return snap, err
	}

	var data []byte
	if s.gdataManager == nil {
		stored, ok := s.memory[key]
		if !ok {
			return snap, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
		}
		data = stored
	} else {
		if !s.gdataManager.ObjectPropExists(playbackObject, key) {
			return snap, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
		}
		loaded, err := s.gdataManager.LoadObjectProp(playbackObject, key)
		if err != nil {
			return snap, fmt.Errorf("failed to load snapshot %s: %w", key, err)
		}
		data = loaded
	}

	if err := yaml.Unmarshal(data, &snap); err != nil {
		return animation.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot %s: %w", key, err)
	}
	return snap, nil
}

// Has 检查是否保存过快照
func (s *PlaybackStore) Has(key string) bool {
	if validateKey(key) != nil {
		return false
	}
	if s.gdataManager == nil {
		_, ok := s.memory[key]
		return ok
	}
	return s.gdataManager.ObjectPropExists(playbackObject, key)
}

// Delete 删除快照，不存在时不报错
func (s *PlaybackStore) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if s.gdataManager == nil {
		delete(s.memory, key)
		return nil
	}
	if !s.gdataManager.ObjectPropExists(playbackObject, key) {
		return nil
	}
	if err := s.gdataManager.DeleteObjectProp(playbackObject, key); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

// SaveAnimator 保存 Animator 的当前播放进度
func (s *PlaybackStore) SaveAnimator(key string, a *animation.Animator) error {
	return s.Save(key, a.Snapshot())
}

// RestoreAnimator 读取快照并恢复到 Animator
// lookup 按名称查找快照引用的动画（通常绑定到某个动画集）
func (s *PlaybackStore) RestoreAnimator(key string, a *animation.Animator, lookup func(name string) (*animation.Animation, error)) error {
	snap, err := s.Load(key)
	if err != nil {
		return err
	}

	var anim *animation.Animation
	if snap.Animation != "" {
		anim, err = lookup(snap.Animation)
		if err != nil {
			return fmt.Errorf("snapshot %s references an unknown animation: %w", key, err)
		}
	}
	if err := a.Restore(snap, anim); err != nil {
		return fmt.Errorf("failed to restore snapshot %s: %w", key, err)
	}
	return nil
}

// validateKey 属性键会成为文件名，只允许字母、数字、'-' 和 '_'
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty snapshot key", animation.ErrInvalidArgument)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: invalid character %q in snapshot key %q", animation.ErrInvalidArgument, r, key)
		}
	}
	return nil
}
