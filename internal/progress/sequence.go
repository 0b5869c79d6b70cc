package progress

import (
	"sort"

	"workplace_training_backend/internal/model"
)

type Kind string

const (
	KindVideo     Kind = "video"
	KindPdf       Kind = "pdf"
	KindTest      Kind = "test"
	KindDashboard Kind = "dashboard"
)

// Item 学习序列中的一个步骤
type Item struct {
	Kind  Kind   `json:"type"`
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// Navigation 某个步骤在序列中的位置
type Navigation struct {
	Current  Item  `json:"current"`
	Position int   `json:"position"` // 从 1 开始
	Total    int   `json:"total"`
	Previous *Item `json:"previous,omitempty"`
	Next     *Item `json:"next,omitempty"`
}

func kindRank(k Kind) int {
	switch k {
	case KindVideo:
		return 0
	case KindPdf:
		return 1
	}
	return 2
}

// Contents 按 (order, 视频优先, id) 合并视频与 PDF
func Contents(course *model.Course) []Item {
	items := make([]Item, 0, len(course.Videos)+len(course.Pdfs))
	for _, v := range course.Videos {
		items = append(items, Item{Kind: KindVideo, ID: v.ID, Title: v.Title, Order: v.Order})
	}
	for _, p := range course.Pdfs {
		items = append(items, Item{Kind: KindPdf, ID: p.ID, Title: p.Title, Order: p.Order})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if kindRank(a.Kind) != kindRank(b.Kind) {
			return kindRank(a.Kind) < kindRank(b.Kind)
		}
		return a.ID < b.ID
	})
	return items
}

// Ordered 完整学习序列；要求测试且测试材料齐全时，测试作为最后一步
func Ordered(course *model.Course) []Item {
	items := Contents(course)
	if course.TestRequired && course.HasTestMaterial() {
		items = append(items, testItem(course))
	}
	return items
}

func testItem(course *model.Course) Item {
	return Item{Kind: KindTest, ID: course.ID, Title: course.Title}
}

// Next 下一步：第一个未完成的内容，其次是未通过的测试，全部完成则回到仪表盘
func Next(course *model.Course, st State) Item {
	for _, item := range Contents(course) {
		if !st.Done(item) {
			return item
		}
	}
	if course.TestRequired && course.HasTestMaterial() && !Compute(course, st).PassedTest {
		return testItem(course)
	}
	return Item{Kind: KindDashboard}
}

// Navigate 返回步骤的前后导航信息，步骤不在序列中时 ok 为 false
func Navigate(course *model.Course, kind Kind, id uint) (nav Navigation, ok bool) {
	items := Ordered(course)
	for i, item := range items {
		if item.Kind != kind || item.ID != id {
			continue
		}
		nav = Navigation{Current: item, Position: i + 1, Total: len(items)}
		if i > 0 {
			prev := items[i-1]
			nav.Previous = &prev
		}
		if i+1 < len(items) {
			next := items[i+1]
			nav.Next = &next
		}
		return nav, true
	}
	return Navigation{}, false
}
