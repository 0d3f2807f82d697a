package analyzer

// Config holds the vocabulary tables and thresholds the analyzers run with.
// Everything here is data: swapping the domain dictionary or the scoring
// tiers requires no code change.
type Config struct {
	// DomainKeywords maps a content theme to the keywords that signal it.
	DomainKeywords []DomainKeywords

	// Title pattern vocabularies for the copywriting analyzer.
	NumberPatterns   []string
	QuestionPatterns []string
	HookWords        []string

	// Stopwords excluded from CJK keyword extraction.
	Stopwords map[string]struct{}

	// WeekdayNames indexed Monday..Sunday.
	WeekdayNames [7]string

	// ViralTopCount is how many notes the viral analyzer ranks.
	ViralTopCount int

	Evaluation EvaluationConfig
}

type DomainKeywords struct {
	Theme    string
	Keywords []string
}

// EvaluationConfig defines the threshold tiers and point values for the
// composite evaluation. Sub-score ceilings: engagement 50, operations 35,
// content 35, viral potential 15.
type EvaluationConfig struct {
	LikeFanRatio    RatioTiers
	EngagementRate  RatioTiers // fractions of follower count, e.g. 0.05 = 5%
	UpdateFrequency FrequencyTiers
}

type RatioTiers struct {
	Excellent float64
	Good      float64
	Average   float64
}

type FrequencyTiers struct {
	High   float64
	Medium float64
}

// DefaultConfig returns the built-in vocabulary for Xiaohongshu lifestyle
// content.
func DefaultConfig() *Config {
	return &Config{
		DomainKeywords: []DomainKeywords{
			{"美妆", []string{"护肤", "化妆", "美妆", "口红", "眼影", "粉底", "防晒", "面膜", "精华", "美白"}},
			{"穿搭", []string{"穿搭", "搭配", "ootd", "时尚", "衣服", "裙子", "外套", "显瘦", "气质"}},
			{"美食", []string{"美食", "食谱", "做饭", "烘焙", "甜品", "菜谱", "好吃", "探店"}},
			{"旅行", []string{"旅行", "旅游", "攻略", "景点", "酒店", "民宿", "打卡"}},
			{"健身", []string{"健身", "减肥", "瘦身", "运动", "瑜伽", "跑步", "塑形"}},
			{"家居", []string{"家居", "装修", "收纳", "好物", "家装", "布置"}},
			{"母婴", []string{"母婴", "宝宝", "育儿", "带娃", "辅食", "早教"}},
			{"数码", []string{"数码", "手机", "电脑", "相机", "科技", "测评"}},
			{"学习", []string{"学习", "考研", "考公", "英语", "自律", "效率"}},
			{"职场", []string{"职场", "工作", "面试", "简历", "副业", "赚钱"}},
		},

		NumberPatterns: []string{
			`\d+个`,
			`\d+种`,
			`\d+款`,
			`\d+招`,
			`\d+步`,
			`\d+天`,
			`\d+年`,
			`第\d+`,
			`(?i)TOP\s*\d+`,
			`\d+%`,
			`(?i)\d+\s*(ways?|tips?|steps?|items?|things?)`,
		},
		QuestionPatterns: []string{
			"如何",
			"怎么",
			"为什么",
			"什么",
			"哪里",
			"哪个",
			"谁",
			`\?`,
			"？",
		},
		HookWords: []string{
			"必看", "必收藏", "强烈推荐", "超实用", "干货",
			"绝了", "太香了", "真香", "yyds", "神器",
			"宝藏", "小众", "冷门", "平价", "学生党",
			"打工人", "懒人", "新手", "入门", "保姆级",
			"手把手", "教程", "攻略", "合集", "盘点",
			"避雷", "踩坑", "测评", "对比", "真实",
			"亲测", "实测", "良心", "省钱", "白嫖",
		},

		Stopwords: newStopwordSet(
			"的", "了", "是", "在", "我", "有", "和", "就", "不", "人",
			"都", "一", "一个", "上", "也", "很", "到", "说", "要", "去",
			"你", "会", "着", "没有", "看", "好", "自己", "这", "那",
			"啊", "吧", "呢", "吗", "哦", "嘛", "呀", "哈", "啦",
		),

		WeekdayNames: [7]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"},

		ViralTopCount: 10,

		Evaluation: EvaluationConfig{
			LikeFanRatio:    RatioTiers{Excellent: 2.0, Good: 1.0, Average: 0.5},
			EngagementRate:  RatioTiers{Excellent: 0.05, Good: 0.02, Average: 0.01},
			UpdateFrequency: FrequencyTiers{High: 5, Medium: 2},
		},
	}
}

func newStopwordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
