package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// PlanCache keeps fetched meal plans and exercise programs per (user, week)
// so paging through days does not refetch from the remote store.
type PlanCache struct {
	cache  *freecache.Cache
	expire int
}

// NewPlanCache creates a cache of sizeMB megabytes whose entries live for ttl.
func NewPlanCache(sizeMB int, ttl time.Duration) *PlanCache {
	if sizeMB <= 0 {
		sizeMB = 16
	}
	expire := int(ttl.Seconds())
	if expire <= 0 {
		expire = 300
	}
	return &PlanCache{
		cache:  freecache.NewCache(sizeMB * megabyte),
		expire: expire,
	}
}

func planKey(userID, weekKey string) []byte {
	return []byte(fmt.Sprintf("plan::%s::%s", userID, weekKey))
}

func programKey(userID, weekKey string) []byte {
	return []byte(fmt.Sprintf("program::%s::%s", userID, weekKey))
}

// Plan returns a cached meal plan.
func (c *PlanCache) Plan(userID, weekKey string) (*planner.WeeklyPlan, bool) {
	var plan planner.WeeklyPlan
	if !c.get(planKey(userID, weekKey), &plan) {
		return nil, false
	}
	plan.Recompute()
	return &plan, true
}

// SetPlan caches a meal plan.
func (c *PlanCache) SetPlan(userID, weekKey string, plan *planner.WeeklyPlan) {
	c.set(planKey(userID, weekKey), plan)
}

// Program returns a cached exercise program.
func (c *PlanCache) Program(userID, weekKey string) (*exercise.Program, bool) {
	var program exercise.Program
	if !c.get(programKey(userID, weekKey), &program) {
		return nil, false
	}
	return &program, true
}

// SetProgram caches an exercise program.
func (c *PlanCache) SetProgram(userID, weekKey string, program *exercise.Program) {
	c.set(programKey(userID, weekKey), program)
}

// InvalidatePlan drops a cached meal plan after it changed remotely.
func (c *PlanCache) InvalidatePlan(userID, weekKey string) {
	c.cache.Del(planKey(userID, weekKey))
}

// InvalidateProgram drops a cached exercise program after it changed remotely.
func (c *PlanCache) InvalidateProgram(userID, weekKey string) {
	c.cache.Del(programKey(userID, weekKey))
}

// HitRate returns the share of lookups served from the cache.
func (c *PlanCache) HitRate() float64 {
	return c.cache.HitRate()
}

func (c *PlanCache) get(key []byte, v any) bool {
	data, err := c.cache.Get(key)
	if err != nil {
		log.Tracef("plan cache miss for %s: %s", key, err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Errorf("failed to unmarshal cached entry %s: %s", key, err)
		c.cache.Del(key)
		return false
	}
	return true
}

func (c *PlanCache) set(key []byte, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal cache entry %s: %s", key, err)
		return
	}
	if err := c.cache.Set(key, data, c.expire); err != nil {
		log.Errorf("failed to write cache entry %s: %s", key, err)
	}
}
