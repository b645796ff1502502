// Package ecs is a small entity-component store used to drive animated
// entities from systems.
package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符，0 保留为无效 ID
type EntityID uint64

// EntityManager 管理实体及其组件
//
// 组件按类型分桶存储（类型 -> 实体 -> 组件），查询时从最小的桶开始筛选。
// 销毁是延迟的：DestroyEntity 只做标记，RemoveMarkedEntities 才真正移除，
// 这样系统可以在遍历查询结果时安全地销毁实体。
type EntityManager struct {
	nextID  EntityID
	alive   map[EntityID]struct{}
	stores  map[reflect.Type]map[EntityID]any
	pending []EntityID
	marked  map[EntityID]struct{}
}

// NewEntityManager 创建一个空的 EntityManager
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1,
		alive:  make(map[EntityID]struct{}),
		stores: make(map[reflect.Type]map[EntityID]any),
		marked: make(map[EntityID]struct{}),
	}
}

// CreateEntity 创建新实体并返回其 ID，ID 不会复用
func (em *EntityManager) CreateEntity() EntityID {
	id := em.nextID
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// IsAlive reports whether id was created and not yet removed.
func (em *EntityManager) IsAlive(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// EntityCount 返回存活实体数量（已标记但尚未清理的实体仍计入）
func (em *EntityManager) EntityCount() int {
	return len(em.alive)
}

// DestroyEntity 标记实体待删除；未知实体与重复标记被忽略
func (em *EntityManager) DestroyEntity(id EntityID) {
	if !em.IsAlive(id) {
		return
	}
	if _, ok := em.marked[id]; ok {
		return
	}
	em.marked[id] = struct{}{}
	em.pending = append(em.pending, id)
}

// RemoveMarkedEntities 移除所有已标记实体及其组件，返回移除数量
func (em *EntityManager) RemoveMarkedEntities() int {
	for _, id := range em.pending {
		for _, store := range em.stores {
			delete(store, id)
		}
		delete(em.alive, id)
		delete(em.marked, id)
	}
	n := len(em.pending)
	em.pending = em.pending[:0]
	return n
}

// AddComponent 为实体添加组件，同类型组件会被替换
// 组件以其动态类型为键，指针与值是不同的类型。
func (em *EntityManager) AddComponent(id EntityID, component any) {
	if !em.IsAlive(id) || component == nil {
		return
	}
	t := reflect.TypeOf(component)
	store, ok := em.stores[t]
	if !ok {
		store = make(map[EntityID]any)
		em.stores[t] = store
	}
	store[id] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if store, ok := em.stores[componentType]; ok {
		delete(store, id)
	}
}

// GetComponent 获取实体的指定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	comp, ok := em.stores[componentType][id]
	return comp, ok
}

// HasComponent 检查实体是否拥有指定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.stores[componentType][id]
	return ok
}

// GetEntitiesWith 返回同时拥有全部 componentTypes 的实体，按 ID 升序
// 不传类型时返回全部存活实体。
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	if len(componentTypes) == 0 {
		result := make([]EntityID, 0, len(em.alive))
		for id := range em.alive {
			result = append(result, id)
		}
		slices.Sort(result)
		return result
	}

	smallest := em.stores[componentTypes[0]]
	for _, t := range componentTypes[1:] {
		if store := em.stores[t]; len(store) < len(smallest) {
			smallest = store
		}
	}

	result := make([]EntityID, 0, len(smallest))
	for id := range smallest {
		hasAll := true
		for _, t := range componentTypes {
			if _, ok := em.stores[t][id]; !ok {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}
