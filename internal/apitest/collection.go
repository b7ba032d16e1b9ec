package apitest

import (
	"encoding/json"
	"strconv"
)

type collection struct {
	nextID int64
	items  []map[string]any
}

func (c *collection) insert(item map[string]any) map[string]any {
	stored := copyMap(item)
	if id := toInt64(stored["id"]); id > 0 {
		if id > c.nextID {
			c.nextID = id
		}
	} else {
		c.nextID++
		stored["id"] = c.nextID
	}
	c.items = append(c.items, stored)
	return stored
}

func (c *collection) find(id int64) (map[string]any, int) {
	for i, item := range c.items {
		if toInt64(item["id"]) == id {
			return item, i
		}
	}
	return nil, -1
}

func (c *collection) update(id int64, patch map[string]any) map[string]any {
	item, _ := c.find(id)
	if item == nil {
		return nil
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		item[k] = v
	}
	return item
}

func (c *collection) remove(id int64) bool {
	_, idx := c.find(id)
	if idx < 0 {
		return false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return true
}

func (c *collection) list() []map[string]any {
	out := make([]map[string]any, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, copyMap(item))
	}
	return out
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}
