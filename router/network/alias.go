package network

import "strings"

// Aliases 线路别名表，key与value均为大写
type Aliases map[string]string

func DefaultAliases() Aliases {
	return Aliases{
		"KJ": "KJ", "KJL": "KJ", "LRT KJ": "KJ", "LRT KELANA JAYA": "KJ",
		"AG": "AG", "AGL": "AG", "LRT AG": "AG", "LRT AMPANG": "AG",
		"SP": "SP", "SPL": "SP", "PH": "SP", "LRT SP": "SP", "LRT SRI PETALING": "SP",
		"MR": "MR", "MRL": "MR",
		"BRT": "BRT",
		"MRT": "MRT", "MRT_SBK": "MRT", "MRT_KGL": "MRT", "SBK": "MRT", "KGL": "MRT",
	}
}

// Merge 合并额外的别名，返回新表
func (a Aliases) Merge(more map[string]string) Aliases {
	out := make(Aliases, len(a)+len(more))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range more {
		out[strings.ToUpper(strings.TrimSpace(k))] = strings.ToUpper(strings.TrimSpace(v))
	}
	return out
}

// Normalize 线路编号规范化：去空白、大写、查别名表
func (a Aliases) Normalize(line string) string {
	key := strings.ToUpper(strings.TrimSpace(line))
	if key == "" {
		return ""
	}
	if canonical, ok := a[key]; ok {
		return canonical
	}
	return key
}
