package introtator_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golift.io/logrotatorr/introtator"
)

var errTest = errors.New("this is a test error")

func TestName(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	layout := &introtator.Layout{Filename: "test.log"}

	name, err := layout.Name(0)
	assert.NoError(err)
	assert.Equal("test.log", name, "index 0 is the active file")

	name, err = layout.Name(1)
	assert.NoError(err)
	assert.Equal("test.log.1", name)

	layout.Dir = filepath.Join("/", "var", "log")
	name, err = layout.Name(12)
	assert.NoError(err)
	assert.Equal(filepath.Join("/", "var", "log", "test.log.12"), name)

	_, err = (&introtator.Layout{}).Name(1)
	assert.ErrorIs(err, introtator.ErrNoFilename)
}

func TestNameCustom(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	layout := &introtator.Layout{Dir: "log", Custom: func(index int) (string, error) {
		if index > 5 {
			return "", errTest
		}

		return fmt.Sprintf("test%d.log", index), nil
	}}

	name, err := layout.Name(3)
	assert.NoError(err)
	assert.Equal(filepath.Join("log", "test3.log"), name)

	_, err = layout.Name(6)
	assert.ErrorIs(err, errTest)
}
