package compose

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/graft-ml/graft/internal/backbone"
)

// Summary renders the composed model as a table: one row per layer with
// its output shape, parameter count, and whether it trains.
func (m *Model[B]) Summary() string {
	var sb strings.Builder
	arch := m.backbone.Arch()

	fmt.Fprintf(&sb, "Model: %s + classification head (%d classes)\n\n", arch.Name, m.numClasses)

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Layer\tOutput Shape\tParams\tTrainable")
	fmt.Fprintln(w, "-----\t------------\t------\t---------")

	var total, trainable int

	// Backbone convolutions.
	size := arch.InputSize
	in := arch.InputChannels
	for i, conv := range append(append([]backbone.ConvSpec{arch.Stem}, arch.Blocks...), arch.Head) {
		size = (size+2*conv.Padding-conv.Kernel)/conv.Stride + 1
		params := conv.Out*in*conv.Kernel*conv.Kernel + conv.Out
		total += params
		fmt.Fprintf(w, "conv_%d (Conv2D+ReLU)\t[N, %d, %d, %d]\t%d\tfrozen\n", i, conv.Out, size, size, params)
		in = conv.Out
	}

	fmt.Fprintf(w, "global_avg_pool\t[N, %d]\t0\t-\n", arch.FeatureChannels)

	// Head layers.
	headDims := []struct {
		name       string
		in, out    int
		activation string
	}{
		{"dense_0 (Linear)", arch.FeatureChannels, hiddenWidth1, "relu"},
		{"dense_1 (Linear)", hiddenWidth1, hiddenWidth2, "relu"},
		{"dense_2 (Linear)", hiddenWidth2, m.numClasses, "softmax"},
	}
	for _, d := range headDims {
		params := d.out*d.in + d.out
		total += params
		trainable += params
		fmt.Fprintf(w, "%s+%s\t[N, %d]\t%d\tyes\n", d.name, d.activation, d.out, params)
	}
	_ = w.Flush()

	fmt.Fprintf(&sb, "\nTotal params: %d (trainable %d, frozen %d)\n", total, trainable, total-trainable)
	if m.compiled {
		fmt.Fprintf(&sb, "Compiled: %s (lr %g), categorical cross-entropy, accuracy\n",
			m.config.Optimizer, m.config.LearningRate)
	} else {
		fmt.Fprintln(&sb, "Compiled: no")
	}
	return sb.String()
}
