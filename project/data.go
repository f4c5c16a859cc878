package project

// TemplateData 将项目展开为提示词模板可引用的嵌套数据，例如 ${versions[0].notes[1]}
// 或 ${versions[0].fields.interpreter}。建议与附件不参与展开。
func (p *Project) TemplateData() map[string]any {
	if p == nil {
		return nil
	}
	versions := make([]any, 0, len(p.Versions))
	for _, v := range p.Versions {
		if v == nil {
			continue
		}
		versions = append(versions, v.templateData())
	}
	return map[string]any{
		"title":    p.Title,
		"author":   p.Author,
		"versions": versions,
	}
}

func (v *Version) templateData() map[string]any {
	fields := make(map[string]any, len(v.Fields))
	for _, f := range v.Fields {
		fields[f.Key] = f.Value
	}
	code := make([]any, 0, len(v.Code))
	for _, c := range v.Code {
		code = append(code, map[string]any{"file": c.File, "code": c.Code})
	}
	return map[string]any{
		"name":            v.Name,
		"fields":          fields,
		"notes":           nonNil(v.Notes),
		"testResults":     nonNil(v.TestResults),
		"terminalOutputs": nonNil(v.TerminalOutputs),
		"code":            code,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
