// Package palette выделяет доминирующие цвета изображения методом k-means.
package palette

import (
	"math"
	"sort"

	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/port"
)

const (
	DefaultK       = 5
	DefaultMaxIter = 20
)

// Extract кластеризует пиксели в k цветов (k-means с инициализацией k-means++).
// Кластеры отсортированы по убыванию населённости. При nil rnd инициализация
// детерминирована: первый центроид берётся из первого пикселя, следующие по
// середине распределения квадратов расстояний.
func Extract(samples []entity.PixelSample, k, maxIter int, rnd port.RandomSource) []entity.ColorCluster {
	if len(samples) == 0 {
		return []entity.ColorCluster{{Centroid: entity.Color{}, Population: 1, Percentage: 100}}
	}
	if k <= 0 {
		k = DefaultK
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	points := make([]entity.Color, len(samples))
	for i, s := range samples {
		points[i] = entity.ColorFromSample(s)
	}

	centroids := seed(points, k, rnd)
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}
		updateCentroids(points, assignments, centroids)
	}

	populations := make([]int, len(centroids))
	for _, a := range assignments {
		populations[a]++
	}

	clusters := make([]entity.ColorCluster, len(centroids))
	for j, c := range centroids {
		clusters[j] = entity.ColorCluster{
			Centroid:   c,
			Population: populations[j],
			Percentage: float64(populations[j]) / float64(len(points)) * 100,
		}
	}
	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].Population > clusters[b].Population
	})
	return clusters
}

// seed выбирает начальные центроиды: первый случайно, каждый следующий
// с вероятностью, пропорциональной квадрату расстояния до ближайшего уже выбранного.
func seed(points []entity.Color, k int, rnd port.RandomSource) []entity.Color {
	centroids := make([]entity.Color, 0, k)
	first := int(uniform(rnd, 0) * float64(len(points)))
	if first >= len(points) {
		first = len(points) - 1
	}
	centroids = append(centroids, points[first])

	distances := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := distance(p, centroids[nearestCentroid(p, centroids)])
			distances[i] = d * d
			total += distances[i]
		}

		target := uniform(rnd, 0.5) * total
		chosen := len(points) - 1
		for i, d := range distances {
			target -= d
			if target <= 0 {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}
	return centroids
}

// uniform возвращает число из rnd или fallback без источника
func uniform(rnd port.RandomSource, fallback float64) float64 {
	if rnd == nil {
		return fallback
	}
	return rnd.Float64()
}

func nearestCentroid(p entity.Color, centroids []entity.Color) int {
	best := 0
	bestDist := math.Inf(1)
	for j, c := range centroids {
		if d := distance(p, c); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

// updateCentroids пересчитывает центроиды как среднее; пустой кластер сохраняет старый центр.
func updateCentroids(points []entity.Color, assignments []int, centroids []entity.Color) {
	sums := make([]entity.Color, len(centroids))
	counts := make([]int, len(centroids))
	for i, p := range points {
		a := assignments[i]
		sums[a].R += p.R
		sums[a].G += p.G
		sums[a].B += p.B
		counts[a]++
	}
	for j := range centroids {
		if counts[j] == 0 {
			continue
		}
		n := float64(counts[j])
		centroids[j] = entity.Color{R: sums[j].R / n, G: sums[j].G / n, B: sums[j].B / n}
	}
}

func distance(a, b entity.Color) float64 {
	dr, dg, db := a.R-b.R, a.G-b.G, a.B-b.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
