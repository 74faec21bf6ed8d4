package ui

// CarouselMode tells the renderer how to lay out the photos.
type CarouselMode string

const (
	CarouselEmpty  CarouselMode = "empty"
	CarouselSingle CarouselMode = "single"
	CarouselCyclic CarouselMode = "cyclic"
)

// Slide is one photo. Fallback is shown if Src fails to load.
type Slide struct {
	Index    int    `json:"index"`
	Src      string `json:"src"`
	Original string `json:"original"`
	Fallback string `json:"fallback"`
}

type Carousel struct {
	Mode   CarouselMode `json:"mode"`
	Slides []Slide      `json:"slides"`
}

// PhotoSource maps an upstream photo URL to the URL the browser should load.
type PhotoSource func(original string) string

// NewCarousel shows a single photo directly and cycles through two or more.
func NewCarousel(urls []string, source PhotoSource, fallback string) Carousel {
	slides := make([]Slide, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		src := url
		if source != nil {
			src = source(url)
		}
		slides = append(slides, Slide{Index: len(slides), Src: src, Original: url, Fallback: fallback})
	}

	mode := CarouselCyclic
	switch len(slides) {
	case 0:
		mode = CarouselEmpty
	case 1:
		mode = CarouselSingle
	}
	return Carousel{Mode: mode, Slides: slides}
}

// Next returns the index after current, wrapping to the first slide.
func (c Carousel) Next(current int) int {
	n := len(c.Slides)
	if n == 0 {
		return 0
	}
	return (wrap(current, n) + 1) % n
}

// Prev returns the index before current, wrapping to the last slide.
func (c Carousel) Prev(current int) int {
	n := len(c.Slides)
	if n == 0 {
		return 0
	}
	return (wrap(current, n) - 1 + n) % n
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
