// Package render форматирует результаты оценки в текст с таблицами
// для бота и CLI.
package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	app "adscore-bot/internal/application"
	"adscore-bot/internal/domain/entity"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

func bullets(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "• %s\n", strings.TrimSpace(item))
	}
}

// Palette роли цветов и кластеры
func Palette(r *app.PaletteReport) string {
	var b strings.Builder
	b.WriteString("🎨 Палитра\n")

	roles := newTable()
	roles.AppendHeader(table.Row{"Роль", "Цвет"})
	roles.AppendRows([]table.Row{
		{"primary", r.Colors.Primary},
		{"secondary", r.Colors.Secondary},
		{"accent", r.Colors.Accent},
		{"background", r.Colors.Background},
		{"text", r.Colors.Text},
	})
	b.WriteString(roles.Render())
	b.WriteString("\n")

	clusters := newTable()
	clusters.AppendHeader(table.Row{"#", "Цвет", "Пикселей", "Доля"})
	for i, c := range r.Clusters {
		clusters.AppendRow(table.Row{i + 1, c.Centroid.Hex(), c.Population, fmt.Sprintf("%.1f%%", c.Percentage)})
	}
	b.WriteString(clusters.Render())
	fmt.Fprintf(&b, "\nДоминирование: %.0f%%, разнообразие: %.0f/100\n", r.Distribution.Dominance, r.Distribution.Diversity)

	if r.Accessible != nil {
		fmt.Fprintf(&b, "\n♿ Доступная палитра: фон %s, текст %s, основной %s\n",
			r.Accessible.Background, r.Accessible.Text, r.Accessible.Primary)
		bullets(&b, "Изменения:", r.Accessible.Adjustments)
	}
	fmt.Fprintf(&b, "\nseed: %d, выборка: %d пикс.\n", r.Seed, r.SampleCount)
	return b.String()
}

// Creative полная оценка макета
func Creative(r *app.CreativeReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📈 Прогноз CTR: %.2f%% (отрасль %s: %.2f%%, топ-10%%: %.2f%%)\n",
		r.CTR.Estimated, r.Industry, r.CTR.Benchmarks.Industry, r.CTR.Benchmarks.TopPerformer)
	fmt.Fprintf(&b, "Качество: %.0f/100, уверенность: %.0f%%\n\n", r.CTR.Quality, r.CTR.Confidence)

	scores := newTable()
	scores.AppendHeader(table.Row{"Показатель", "Балл"})
	scores.AppendRows([]table.Row{
		{"Визуальная привлекательность", score(r.CTR.Factors.VisualAppeal)},
		{"Заметность CTA", score(r.CTR.Factors.CTAProminence)},
		{"Качество текста", score(r.CTR.Factors.CopyQuality)},
		{"Внимание", score(r.CTR.Factors.Attention)},
	})
	scores.AppendSeparator()
	scores.AppendRows([]table.Row{
		{"Внимание: заголовок", score(r.Heatmap.AttentionScore.Headline)},
		{"Внимание: продукт", score(r.Heatmap.AttentionScore.Product)},
		{"Внимание: описание", score(r.Heatmap.AttentionScore.Description)},
		{"Внимание: CTA", score(r.Heatmap.AttentionScore.CTA)},
		{"Достижение CTA взглядом", score(r.Heatmap.GazePath.CTAReachProbability)},
	})
	scores.AppendSeparator()
	scores.AppendRow(table.Row{"Визуальный баланс", score(r.Balance.Overall)})
	b.WriteString(scores.Render())

	fmt.Fprintf(&b, "\n\n👀 Паттерн взгляда: %s, фиксаций: %d\n", r.Heatmap.GazePath.Pattern, len(r.Heatmap.GazePath.Points))
	fmt.Fprintf(&b, "%s Целевой CTR\n", mark(r.MeetsTarget))
	fmt.Fprintf(&b, "%s Стандарты внимания\n", mark(r.PassesAttentionStandards))

	bullets(&b, "💡 Рекомендации:", r.CTR.Recommendations)
	bullets(&b, "🔎 Внимание:", r.Heatmap.Insights)
	bullets(&b, "⚖️ Баланс:", r.Balance.Issues)

	if r.Palette != nil {
		b.WriteString("\n")
		b.WriteString(Palette(r.Palette))
	}
	if r.PaletteError != "" {
		b.WriteString("\n⚠️ Палитра не извлечена: изображение не удалось прочитать\n")
	}
	return b.String()
}

// ABTest прогноз A/B-теста
func ABTest(r *app.ABTestReport) string {
	var b strings.Builder
	b.WriteString(abTable(r.Prediction))
	b.WriteString("\n\n")

	if r.Prediction.HasWinner() {
		fmt.Fprintf(&b, "🏆 Победитель: %s\n", r.Prediction.Winner)
	} else {
		b.WriteString("🤷 Победитель не определён\n")
	}
	if r.Prediction.EarlyStoppingRecommended {
		b.WriteString("⏹ Тест можно остановить досрочно\n")
	}
	fmt.Fprintf(&b, "Минимальная выборка: %d на вариант\n", r.Prediction.MinimumSampleSize)
	if r.Best != "" {
		fmt.Fprintf(&b, "Лучший по сводному баллу: %s\n", r.Best)
	}
	bullets(&b, "💡 Выводы:", r.Prediction.Insights)
	fmt.Fprintf(&b, "\nseed: %d\n", r.Seed)
	return b.String()
}

// Comparison сравнение макетов и прогноз A/B-теста между ними
func Comparison(r *app.ComparisonReport) string {
	var b strings.Builder

	t := newTable()
	t.AppendHeader(table.Row{"Вариант", "CTR", "Качество", "Внимание", "Баланс", "Сводный"})
	for _, v := range r.Variants {
		heatmap := 0.0
		if v.Metrics.HeatmapScore != nil {
			heatmap = *v.Metrics.HeatmapScore
		}
		t.AppendRow(table.Row{
			v.ID,
			fmt.Sprintf("%.2f%%", v.Metrics.CTREstimate),
			score(v.Metrics.QualityScore),
			score(heatmap),
			score(v.Metrics.BalanceScore),
			fmt.Sprintf("%.1f", v.ComprehensiveScore),
		})
	}
	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(ABTest(&r.ABTestReport))
	return b.String()
}

func abTable(p entity.ABTestPrediction) string {
	t := newTable()
	t.AppendHeader(table.Row{"Вариант", "CTR", "95% ДИ", "Уверенность", "Трафик"})
	for _, v := range p.Variants {
		t.AppendRow(table.Row{
			v.VariantID,
			fmt.Sprintf("%.2f%%", v.EstimatedCTR),
			fmt.Sprintf("%.2f–%.2f", v.Lower(), v.Upper()),
			fmt.Sprintf("%.0f%%", v.Confidence),
			fmt.Sprintf("%.1f%%", v.RecommendedTrafficAllocation),
		})
	}
	return t.Render()
}

func score(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
