package util

import (
	"strconv"
	"strings"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseUintList 解析 "1,2,3" 或多值表单，忽略非法项和 0
func ParseUintList(values ...string) []uint {
	var ids []uint
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if id := MustParseUint(strings.TrimSpace(part)); id > 0 {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
