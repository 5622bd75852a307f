package utils_test

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/create-module/internal/utils"
)

func TestSynchronizedWriterFlushesBufferedDestinations(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriter(destination)

	synchronizedWriter := utils.NewSynchronizedWriter(bufferedWriter)
	_, writeError := synchronizedWriter.Write([]byte("Creating GitHub repo..\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "Creating GitHub repo..\n", destination.String())
}

func TestSynchronizedWriterWrapping(testInstance *testing.T) {
	synchronizedWriter := utils.NewSynchronizedWriter(&bytes.Buffer{})
	require.Same(testInstance, synchronizedWriter, utils.NewSynchronizedWriter(synchronizedWriter))
	require.Nil(testInstance, utils.NewSynchronizedWriter(nil))
}

func TestSynchronizedWriterKeepsConcurrentLinesIntact(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	synchronizedWriter := utils.NewSynchronizedWriter(destination)

	var waitGroup sync.WaitGroup
	for writerIndex := 0; writerIndex < 8; writerIndex++ {
		waitGroup.Add(1)
		go func(writerIndex int) {
			defer waitGroup.Done()
			for lineIndex := 0; lineIndex < 50; lineIndex++ {
				fmt.Fprintf(synchronizedWriter, "writer-%d line-%d\n", writerIndex, lineIndex)
			}
		}(writerIndex)
	}
	waitGroup.Wait()

	lines := strings.Split(strings.TrimSuffix(destination.String(), "\n"), "\n")
	require.Len(testInstance, lines, 400)
	for _, line := range lines {
		require.True(testInstance, strings.HasPrefix(line, "writer-"), line)
	}
}
