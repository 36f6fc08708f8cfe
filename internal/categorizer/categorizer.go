// Package categorizer assigns an article category from keyword hits in
// the title and summary, with per-source defaults when no keyword
// matches.
package categorizer

import (
	"strings"

	"fastinfo/internal/domain/entity"
)

// categoryKeywords maps each category to its match terms. Matching is
// case-insensitive substring containment against title+summary.
var categoryKeywords = map[entity.Category][]string{
	entity.CategoryTech: {
		"人工智能", "机器学习", "深度学习", "大模型",
		"芯片", "半导体", "量子", "5g", "6g",
		"苹果", "特斯拉", "谷歌", "微软", "openai",
		"新能源", "电动车", "自动驾驶", "元宇宙",
		"区块链", "加密货币", "比特币", "web3",
		"智能硬件", "物联网", "iot", "可穿戴",
		"科技公司", "融资", "上市", "ipo",
		"artificial intelligence", "machine learning", "deep learning",
		"quantum", "semiconductor", "chip", "tesla",
		"autonomous", "blockchain", "crypto", "metaverse",
		"wearable", "startup", "funding",
	},
	entity.CategoryDev: {
		"编程", "代码", "开发", "程序员", "工程师",
		"javascript", "python", "rust", "c++",
		"react", "vue", "angular", "node.js", "typescript",
		"docker", "kubernetes", "devops", "ci/cd",
		"前端", "后端", "全栈", "架构", "微服务",
		"数据库", "sql", "nosql", "redis",
		"git", "linux", "macos",
		"算法", "数据结构", "设计模式", "性能优化",
		"测试", "调试", "bug", "框架",
		"programming", "coding", "developer", "engineer",
		"framework", "library", "api", "database",
		"frontend", "backend", "fullstack", "architecture",
		"microservices",
		"algorithm", "data structure", "performance",
		"testing", "debugging", "tutorial", "guide",
	},
	entity.CategoryOpenSource: {
		"开源", "仓库", "项目", "github", "gitlab",
		"pull request", "issue",
		"贡献者", "许可证", "apache", "gpl",
		"开源社区", "开源项目",
		"opensource", "open source", "open-source",
		"repository", "repo",
		"star", "fork", "contributor", "contributors",
		"license", "mit",
		"commit", "trending", "awesome",
	},
	entity.CategoryAcademic: {
		"论文", "研究", "学术", "期刊", "会议",
		"科研", "实验", "理论", "方法论", "模型",
		"大学", "实验室", "教授", "博士", "硕士",
		"自然", "科学", "nature", "science", "cell",
		"arxiv", "ieee", "acm", "neurips", "cvpr",
		"医学", "生物", "物理", "化学", "数学",
		"计算机科学", "认知科学", "神经科学",
		"paper", "research", "study", "journal", "conference",
		"experiment", "theory", "methodology", "model",
		"university", "laboratory", "professor", "phd",
		"publication", "peer review", "citation",
		"medicine", "biology", "physics", "chemistry",
		"mathematics", "computer science", "neuroscience",
	},
	entity.CategoryProduct: {
		"产品", "工具", "应用", "软件",
		"发布", "上线", "推出", "新品", "更新",
		"ai工具", "ai助手", "ai应用",
		"免费", "付费", "订阅", "定价",
		"功能", "特性", "体验", "测试版",
		"product", "tool", "app", "application", "software",
		"launch", "release", "update", "version",
		"free", "paid", "pricing", "subscription",
		"feature", "beta", "saas", "platform",
		"ai tool", "ai assistant", "ai app",
	},
}

// sourceDefaults is consulted when no keyword matches at all.
var sourceDefaults = map[string]entity.Category{
	"GitHub Trending": entity.CategoryOpenSource,
	"Hacker News":     entity.CategoryTech,
	"Dev.to":          entity.CategoryDev,
	"掘金":              entity.CategoryDev,
	"V2EX":            entity.CategoryTech,
	"少数派":             entity.CategoryTech,
	"IT之家":            entity.CategoryTech,
	"arXiv":           entity.CategoryAcademic,
	"AIBase":          entity.CategoryProduct,
	"Product Hunt":    entity.CategoryProduct,
	"36氪":             entity.CategoryTech,
	"机器之心":            entity.CategoryTech,
	"HuggingFace":     entity.CategoryAcademic,
	"NewsNow":         entity.CategoryTech,
}

// Categorize picks the category with the most keyword hits across the
// title and summary. Ties resolve by the fixed order of
// entity.Categories. With zero hits the source default applies, and
// unknown sources land in tech.
func Categorize(title, summary, source string) entity.Category {
	text := strings.ToLower(title + " " + summary)

	best := entity.Category("")
	bestScore := 0
	for _, cat := range entity.Categories {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	if bestScore > 0 {
		return best
	}
	if def, ok := sourceDefaults[source]; ok {
		return def
	}
	return entity.CategoryTech
}
