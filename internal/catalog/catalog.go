// Package catalog holds the immutable in-process GPT catalog and the
// static home cards. It is built once at startup and injected read-only;
// nothing mutates it afterwards.
package catalog

import (
	"strings"

	"github.com/gptdeskapp/gptdesk-server/internal/domain"
)

// Catalog is an immutable set of GPT entries plus the home card groups.
type Catalog struct {
	items []domain.GPT
	byID  map[string]domain.GPT
	home  domain.HomeCards
}

// New builds a catalog from the given items and home cards.
// The input slice is copied; later items win on duplicate IDs.
func New(items []domain.GPT, home domain.HomeCards) *Catalog {
	c := &Catalog{
		items: make([]domain.GPT, len(items)),
		byID:  make(map[string]domain.GPT, len(items)),
		home:  home,
	}
	copy(c.items, items)
	for _, g := range c.items {
		c.byID[g.ID] = g
	}
	return c
}

// Get returns the catalog entry for id.
func (c *Catalog) Get(id string) (domain.GPT, bool) {
	g, ok := c.byID[id]
	return g, ok
}

// Items returns all catalog entries in definition order.
// The returned slice is a copy; callers may not mutate the catalog.
func (c *Catalog) Items() []domain.GPT {
	out := make([]domain.GPT, len(c.items))
	copy(out, c.items)
	return out
}

// Filter returns the entries whose name contains query as a
// case-insensitive substring. An empty query returns everything.
func (c *Catalog) Filter(query string) []domain.GPT {
	if query == "" {
		return c.Items()
	}
	q := strings.ToLower(query)
	out := []domain.GPT{}
	for _, g := range c.items {
		if strings.Contains(strings.ToLower(g.Name), q) {
			out = append(out, g)
		}
	}
	return out
}

// HomeCards returns the static curated card groups.
func (c *Catalog) HomeCards() domain.HomeCards {
	return c.home
}

// Default returns the built-in catalog and home cards.
func Default() *Catalog {
	return New(defaultItems, defaultHomeCards)
}

var defaultItems = []domain.GPT{
	{ID: "g1", Name: "SQL助手", Desc: "处理 SQL 相关问题"},
	{ID: "g2", Name: "报表生成器", Desc: "自动生成数据报表"},
	{ID: "g3", Name: "法务审查", Desc: "快速审查合同条款"},
	{ID: "g4", Name: "市场分析", Desc: "洞察市场趋势"},
	{ID: "g5", Name: "ECharts 画图助手", Desc: "用 ECharts 绘制可视化图表", Logo: "/gpts/echarts.svg"},
	{ID: "g6", Name: "PPT 大纲生成助手", Desc: "自动生成演示文稿大纲", Logo: "/gpts/ppt.svg"},
}

var defaultHomeCards = domain.HomeCards{
	Favorites: []domain.HomeCard{
		{Icon: "🔍", Title: "学术搜索", Desc: "检索学术问题和参考文献", From: "来自 Kimi"},
		{Icon: "📊", Title: "PPT 助手", Desc: "轻松制作演示文稿", From: "来自 Kimi"},
		{Icon: "💼", Title: "Kimi 专业版", Desc: "更精准的搜索助手", From: "来自 Kimi"},
	},
	Recommended: []domain.HomeCard{
		{Icon: "💡", Title: "AI 创意助手", Desc: "激发灵感的创作工具", From: "来自 Kimi"},
		{Icon: "📚", Title: "知识问答", Desc: "快速获取专业答案", From: "来自 Kimi"},
	},
}
