package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/decker502/animkit/pkg/animation"
	"gopkg.in/yaml.v3"
)

// GlobalConfigFile 目录模式下全局配置文件名（位于配置目录的上级目录）
const GlobalConfigFile = "animation_config.yaml"

// AnimationBundleConfig 单文件模式的顶层结构
type AnimationBundleConfig struct {
	Global GlobalConfig         `yaml:"global"`
	Sets   []AnimationSetConfig `yaml:"sets"`
}

// animationSet 已加载的动画集
type animationSet struct {
	config     *AnimationSetConfig
	animations map[string]*animation.Animation
}

// AnimationConfigManager 动画配置管理器
// 负责加载动画集配置并构建共享的 Animation 实例
type AnimationConfigManager struct {
	fsys       fs.FS
	configPath string

	global GlobalConfig
	sets   map[string]*animationSet
	mu     sync.RWMutex
}

// NewAnimationConfigManager 创建配置管理器
//
// 参数：
//   - fsys: 配置所在文件系统
//   - configPath: 配置文件路径或目录路径
//   - 文件路径（如 "data/animations.yaml"）：单文件模式，包含 global 与 sets
//   - 目录路径（如 "data/animations"）：加载目录下所有 YAML 文件，
//     全局配置从上级目录的 animation_config.yaml 读取
//
// 返回：
//   - *AnimationConfigManager: 配置管理器实例
//   - error: 加载、解析或构建错误
func NewAnimationConfigManager(fsys fs.FS, configPath string) (*AnimationConfigManager, error) {
	m := &AnimationConfigManager{
		fsys:       fsys,
		configPath: configPath,
	}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload 重新加载全部配置
// 加载失败时保留原有配置
func (m *AnimationConfigManager) Reload() error {
	info, err := fs.Stat(m.fsys, m.configPath)
	if err != nil {
		return fmt.Errorf("cannot access path %s: %w", m.configPath, err)
	}

	var (
		global GlobalConfig
		sets   map[string]*animationSet
	)
	if info.IsDir() {
		global, sets, err = m.loadFromDirectory(m.configPath)
	} else {
		global, sets, err = m.loadFromFile(m.configPath)
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.global = global
	m.sets = sets
	m.mu.Unlock()

	log.Printf("[AnimationConfigManager] Loaded %d animation sets from %s", len(sets), m.configPath)
	return nil
}

// loadFromFile 从单个文件加载全部动画集
func (m *AnimationConfigManager) loadFromFile(filePath string) (GlobalConfig, map[string]*animationSet, error) {
	data, err := fs.ReadFile(m.fsys, filePath)
	if err != nil {
		return GlobalConfig{}, nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	var bundle AnimationBundleConfig
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return GlobalConfig{}, nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}
	bundle.Global.Playback = bundle.Global.Playback.orDefault()
	if err := bundle.Global.Playback.validate(); err != nil {
		return GlobalConfig{}, nil, fmt.Errorf("config file %s is invalid: %w", filePath, err)
	}

	configs := make([]*AnimationSetConfig, 0, len(bundle.Sets))
	for i := range bundle.Sets {
		cfg := &bundle.Sets[i]
		if err := validateSetConfig(cfg); err != nil {
			return GlobalConfig{}, nil, fmt.Errorf("config file %s, set #%d: %w", filePath, i, err)
		}
		configs = append(configs, cfg)
	}

	sets, err := m.buildSets(configs, bundle.Global.Playback)
	if err != nil {
		return GlobalConfig{}, nil, fmt.Errorf("config file %s: %w", filePath, err)
	}
	return bundle.Global, sets, nil
}

// loadFromDirectory 从目录加载所有动画集配置文件
func (m *AnimationConfigManager) loadFromDirectory(dirPath string) (GlobalConfig, map[string]*animationSet, error) {
	global, err := LoadGlobalConfig(m.fsys, path.Join(path.Dir(dirPath), GlobalConfigFile))
	if err != nil {
		return GlobalConfig{}, nil, fmt.Errorf("failed to load global config: %w", err)
	}

	entries, err := fs.ReadDir(m.fsys, dirPath)
	if err != nil {
		return GlobalConfig{}, nil, fmt.Errorf("failed to scan directory %s: %w", dirPath, err)
	}

	configs := make([]*AnimationSetConfig, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsConfigFile(entry.Name()) {
			continue
		}
		cfg, err := LoadAnimationSetConfig(m.fsys, path.Join(dirPath, entry.Name()))
		if err != nil {
			return GlobalConfig{}, nil, err
		}
		configs = append(configs, cfg)
	}

	sets, err := m.buildSets(configs, global.Playback)
	if err != nil {
		return GlobalConfig{}, nil, fmt.Errorf("directory %s: %w", dirPath, err)
	}
	return global, sets, nil
}

// buildSets 构建索引并构建每个动画集的 Animation
func (m *AnimationConfigManager) buildSets(configs []*AnimationSetConfig, playback PlaybackConfig) (map[string]*animationSet, error) {
	sets := make(map[string]*animationSet, len(configs))
	for _, cfg := range configs {
		if _, exists := sets[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate animation set ID: %s", cfg.ID)
		}
		anims, err := cfg.BuildAnimations(m.fsys, playback)
		if err != nil {
			return nil, err
		}
		sets[cfg.ID] = &animationSet{config: cfg, animations: anims}
	}
	return sets, nil
}

func (m *AnimationConfigManager) getSet(id string) (*animationSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, exists := m.sets[id]
	if !exists {
		return nil, fmt.Errorf("animation set '%s' does not exist", id)
	}
	return set, nil
}

// GetSet 获取动画集配置
func (m *AnimationConfigManager) GetSet(id string) (*AnimationSetConfig, error) {
	set, err := m.getSet(id)
	if err != nil {
		return nil, err
	}
	return set.config, nil
}

// GetAnimation 获取共享的 Animation 实例
//
// 参数：
//   - setID: 动画集 ID（如 "mario"）
//   - name: 动画名称（如 "walk"）
func (m *AnimationConfigManager) GetAnimation(setID, name string) (*animation.Animation, error) {
	set, err := m.getSet(setID)
	if err != nil {
		return nil, err
	}

	anim, exists := set.animations[name]
	if !exists {
		return nil, fmt.Errorf("animation '%s/%s' does not exist", setID, name)
	}
	return anim, nil
}

// GetDefaultAnimation 获取动画集的默认动画
func (m *AnimationConfigManager) GetDefaultAnimation(setID string) (*animation.Animation, error) {
	set, err := m.getSet(setID)
	if err != nil {
		return nil, err
	}
	if set.config.DefaultAnimation == "" {
		return nil, fmt.Errorf("animation set '%s' has no default animation", setID)
	}
	return set.animations[set.config.DefaultAnimation], nil
}

// ListAnimations 列出动画集中的动画名称（已排序）
func (m *AnimationConfigManager) ListAnimations(setID string) ([]string, error) {
	set, err := m.getSet(setID)
	if err != nil {
		return nil, err
	}
	return sortedKeys(set.animations), nil
}

// ListSets 列出所有动画集 ID（已排序）
func (m *AnimationConfigManager) ListSets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sortedKeys(m.sets)
}

// GetPlaybackConfig 获取全局播放配置
func (m *AnimationConfigManager) GetPlaybackConfig() PlaybackConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.global.Playback
}

// IsConfigFile reports whether name has a YAML extension.
func IsConfigFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
