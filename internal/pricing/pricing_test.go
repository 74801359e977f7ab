package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHourlyRate(t *testing.T) {
	cases := []struct {
		subject string
		want    int
	}{
		{"KS3 Maths", 25},
		{"maths ks3", 25},
		{"Physics A-Level", 40},
		{"Chemistry A Level", 40},
		{"Biology ALevel", 40},
		{"Maths GCSE", 30},
		{"English", 30},
		{"", 30},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HourlyRate(c.subject), "subject %q", c.subject)
	}
}

func TestBundlePrice(t *testing.T) {
	assert.Equal(t, 230, BundlePrice("KS3 Science"))
	assert.Equal(t, 370, BundlePrice("Further Maths A-Level"))
	assert.Equal(t, 280, BundlePrice("Maths GCSE"))
}
