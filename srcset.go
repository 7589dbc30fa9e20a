package ammonia

import (
	"strconv"
	"strings"
)

type imageCandidates []imageCandidate

// cleanSrcSet removes image candidates with bad URLs or descriptors from the
// srcset value. It returns false if no candidates left.
func (self *Sanitizer) cleanSrcSet(value string) (string, bool) {
	candidates := parseSrcSetAttribute(value)
	images := candidates[:0]
	for _, image := range candidates {
		if u, ok := self.cleanURL(image.ImageURL); ok {
			image.ImageURL = u
			images = append(images, image)
		}
	}

	if len(images) == 0 {
		return "", false
	}
	return images.String(), true
}

// parseSrcSetAttribute returns the list of image candidates from the set.
// https://html.spec.whatwg.org/#parse-a-srcset-attribute
func parseSrcSetAttribute(attr string) imageCandidates {
	var images imageCandidates
	for pos := 0; pos < len(attr); {
		pos += skipFunc(attr[pos:], func(c byte) bool {
			return c == ',' || isASCIISpace(rune(c))
		})
		if pos >= len(attr) {
			break
		}

		n := skipFunc(attr[pos:], func(c byte) bool {
			return !isASCIISpace(rune(c))
		})
		imageURL := attr[pos : pos+n]
		pos += n

		var descr string
		if trimmed := strings.TrimRight(imageURL, ","); trimmed != imageURL {
			imageURL = trimmed
		} else {
			n = descriptorsLen(attr[pos:])
			descr = strings.TrimSpace(attr[pos : pos+n])
			pos += n
		}

		if validWidthDensity(descr) {
			images = append(images,
				imageCandidate{ImageURL: imageURL, Descriptor: descr})
		}
	}
	return images
}

func skipFunc(s string, fn func(c byte) bool) int {
	for i := range len(s) {
		if !fn(s[i]) {
			return i
		}
	}
	return len(s)
}

// descriptorsLen returns length of descriptors up to the comma which ends
// them. Commas inside parens don't count.
func descriptorsLen(s string) int {
	var parens bool
	for i := range len(s) {
		switch s[i] {
		case '(':
			parens = true
		case ')':
			parens = false
		case ',':
			if !parens {
				return i
			}
		}
	}
	return len(s)
}

func (c imageCandidates) String() string {
	htmlCandidates := make([]string, len(c))
	for i, imageCandidate := range c {
		htmlCandidates[i] = imageCandidate.String()
	}
	return strings.Join(htmlCandidates, ", ")
}

type imageCandidate struct {
	ImageURL   string
	Descriptor string
}

func validWidthDensity(value string) bool {
	if value == "" {
		return true
	} else if strings.ContainsFunc(value, isASCIISpace) {
		return false
	}

	lastChar := value[len(value)-1:]
	if lastChar != "w" && lastChar != "x" {
		return false
	}

	_, err := strconv.ParseFloat(value[0:len(value)-1], 32)
	return err == nil
}

func (self *imageCandidate) String() string {
	if self.Descriptor == "" {
		return self.ImageURL
	}
	return self.ImageURL + " " + self.Descriptor
}
