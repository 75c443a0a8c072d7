// =================================================================================
//
//			fox-spl - https://www.foxhollow.cc/projects/fox-spl/
//
//		 Fox SPL is a touchscreen sound level meter that watches one or two
//	  audio inputs and flags material that is too quiet or too loud
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package app

import (
	"sync"
	"sync/atomic"

	"fox-spl/display"
	"fox-spl/display/theme"
	"fox-spl/dsp"
	"fox-spl/meter"
	"fox-spl/model"
)

const (
	awButton = iota
	speechButton
	splitButton
	graphButton
)

const configMessage = `No config file was found.
The default has been loaded.

You should probably close this
and setup the audio inputs.`

var buttonLabels = [...]string{"A/W", "SPEECH", "SPLIT", "GRAPH"}

// MeterController owns the meter's widget tree. The buttons hold the mode
// switches the capture loops read and changing split or graph rearranges the
// middle of the grid.
type MeterController struct {
	config     atomic.Pointer[model.Config]
	aggregator *meter.Aggregator
	lineIn     bool

	grid       *display.GridingManager
	buttons    [len(buttonLabels)]*display.Button
	indicators [meter.Channels]*display.Indicator
	graph      *display.Graph
	vu         *display.VUMeter

	reflowLock sync.Mutex
}

func NewMeterController(config *model.Config, aggregator *meter.Aggregator, t theme.Theme) *MeterController {
	controller := &MeterController{
		aggregator: aggregator,
		lineIn:     config.LineIn,
		grid:       display.NewGridingManager(config.Padding),
	}
	controller.config.Store(config)

	for i, label := range buttonLabels {
		controller.buttons[i] = display.NewButton(t, label, nil)
		controller.grid.Grid(controller.buttons[i], 0, i)
	}

	controller.buttons[speechButton].OnToggle(controller.onSpeechToggle)
	controller.buttons[splitButton].OnToggle(func(bool) { controller.Reflow() })
	controller.buttons[graphButton].OnToggle(func(bool) { controller.Reflow() })

	// a second stream already fills the second indicator
	controller.buttons[splitButton].SetDisabled(config.LineIn)

	controller.indicators[meter.PrimaryChannel] = display.NewIndicator(t, aggregator, meter.PrimaryChannel, config.Source1Label, config.ColourPadding)
	controller.indicators[meter.SecondaryChannel] = display.NewIndicator(t, aggregator, meter.SecondaryChannel, config.Source2Label, config.ColourPadding)
	controller.grid.Place(controller.indicators[meter.PrimaryChannel], 1, 0, 1, 2)
	controller.grid.Place(controller.indicators[meter.SecondaryChannel], 2, 0, 1, 2)

	controller.graph = display.NewGraph(t, aggregator, config.ColourPadding)
	controller.grid.Place(controller.graph, 1, 2, 2, 2)

	controller.vu = display.NewVUMeter(t, aggregator, config.Watermark)
	controller.grid.Place(controller.vu, 3, 0, 1, 4)

	controller.Reflow()

	return controller
}

// Mount puts the grid on the root window with any start up messages on top
// of it. The last one added is the first one seen.
func (controller *MeterController) Mount(root *display.RootWindow, t theme.Theme, isNewConfig bool) {
	config := controller.config.Load()

	root.AddChild(controller.grid)

	if config.WelcomeMessage != "" {
		root.AddChild(display.NewMessageBox(t, config.WelcomeMessage))
	}

	if isNewConfig {
		root.AddChild(display.NewMessageBox(t, configMessage))
	}
}

//
// mode switches
//

func (controller *MeterController) AWeighting() bool {
	return controller.buttons[awButton].State()
}

func (controller *MeterController) Speech() bool {
	return controller.buttons[speechButton].State()
}

// Split is never on with line in, even if the button somehow is
func (controller *MeterController) Split() bool {
	return !controller.lineIn && controller.buttons[splitButton].State()
}

func (controller *MeterController) GraphVisible() bool {
	return controller.buttons[graphButton].State()
}

func (controller *MeterController) dualOrSplit() bool {
	return controller.lineIn || controller.Split()
}

//
// accessors
//

func (controller *MeterController) Grid() *display.GridingManager {
	return controller.grid
}

func (controller *MeterController) Button(index int) *display.Button {
	return controller.buttons[index]
}

func (controller *MeterController) Indicator(channel int) *display.Indicator {
	return controller.indicators[channel]
}

func (controller *MeterController) Graph() *display.Graph {
	return controller.graph
}

func (controller *MeterController) VUMeter() *display.VUMeter {
	return controller.vu
}

// Labels are the names the indicators currently show
func (controller *MeterController) Labels() [meter.Channels]string {
	return [meter.Channels]string{
		controller.indicators[meter.PrimaryChannel].Label(),
		controller.indicators[meter.SecondaryChannel].Label(),
	}
}

//
// behaviour
//

func (controller *MeterController) onSpeechToggle(bool) {
	controller.applyThresholds()
}

func (controller *MeterController) applyThresholds() {
	controller.aggregator.SetThresholds(thresholdsFor(controller.config.Load(), controller.Speech()))
	controller.vu.Invalidate()
}

// ApplyConfig takes the parts of a reloaded config that can change while
// running: thresholds and labels. Stream and layout settings need a restart.
func (controller *MeterController) ApplyConfig(config *model.Config) {
	controller.config.Store(config)
	controller.applyThresholds()
	controller.applyLabels()
}

func (controller *MeterController) applyLabels() {
	config := controller.config.Load()

	if controller.Split() {
		controller.indicators[meter.PrimaryChannel].SetLabel(config.Split1Label)
		controller.indicators[meter.SecondaryChannel].SetLabel(config.Split2Label)
	} else {
		controller.indicators[meter.PrimaryChannel].SetLabel(config.Source1Label)
		controller.indicators[meter.SecondaryChannel].SetLabel(config.Source2Label)
	}
}

// Reflow takes the indicators and the graph out of the grid and puts back
// the ones the current modes call for.
func (controller *MeterController) Reflow() {
	controller.reflowLock.Lock()
	defer controller.reflowLock.Unlock()

	primary := controller.indicators[meter.PrimaryChannel]
	secondary := controller.indicators[meter.SecondaryChannel]

	controller.grid.Remove(primary)
	controller.grid.Remove(secondary)
	controller.grid.Remove(controller.graph)

	graph := controller.GraphVisible()

	switch {
	case controller.dualOrSplit() && graph:
		controller.grid.Place(primary, 1, 0, 1, 2)
		controller.grid.Place(secondary, 2, 0, 1, 2)
		controller.grid.Place(controller.graph, 1, 2, 2, 2)

	case controller.dualOrSplit():
		controller.grid.Place(primary, 1, 0, 2, 2)
		controller.grid.Place(secondary, 1, 2, 2, 2)

	case graph:
		controller.grid.Place(primary, 1, 0, 2, 2)
		controller.grid.Place(controller.graph, 1, 2, 2, 2)

	default:
		controller.grid.Place(primary, 1, 0, 2, 4)
	}

	controller.applyLabels()
}

func thresholdsFor(config *model.Config, speech bool) meter.ThresholdSet {
	if speech {
		return meter.ThresholdSet{Quiet: dsp.Level(config.QuietSpeech), Loud: dsp.Level(config.LoudSpeech)}
	}

	return meter.ThresholdSet{Quiet: dsp.Level(config.QuietMusic), Loud: dsp.Level(config.LoudMusic)}
}
