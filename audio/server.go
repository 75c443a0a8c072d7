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
package audio

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/hairlesshobo/go-jack"
)

const jackdStartTimeout = 15 * time.Second

type JackServer struct {
	clientName string
	driver     string
	device     string
	jackdPath  string
	portPrefix string
	sampleRate int
	period     int
	verbose    bool

	ports []*Port

	jackClient *jack.Client
	lock       sync.Mutex

	cmd *exec.Cmd
}

type JackServerOptions struct {
	ClientName string
	// AudioInterface is "driver/device", only used when jackd is started by us
	AudioInterface string
	JackdBinary    string
	PortPrefix     string
	SampleRate     int
	Period         int
	Verbose        bool
}

func NewServer(options JackServerOptions) *JackServer {
	driver, device, _ := strings.Cut(options.AudioInterface, "/")

	server := JackServer{
		clientName: options.ClientName,
		driver:     driver,
		device:     device,
		jackdPath:  options.JackdBinary,
		portPrefix: options.PortPrefix,
		sampleRate: options.SampleRate,
		period:     options.Period,
		verbose:    options.Verbose,

		ports: make([]*Port, 0),
	}

	return &server
}

// StartServer spawns jackd and waits for its driver to come up
func (server *JackServer) StartServer() error {
	if server.jackdPath == "" {
		return errors.New("no jackd binary found")
	}

	args := make([]string, 0)
	if server.verbose {
		args = append(args, "-v")
	}
	if server.driver != "" {
		args = append(args, fmt.Sprintf("-d%s", server.driver))
	}
	if server.device != "" {
		args = append(args, fmt.Sprintf("-d%s", server.device))
	}
	args = append(args, fmt.Sprintf("-r%d", server.sampleRate), fmt.Sprintf("-p%d", server.period))

	slog.Info("Starting JACK server: " + server.jackdPath + " " + strings.Join(args, " "))

	server.cmd = exec.Command(server.jackdPath, args...)
	stdout, err := server.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to jackd output: %w", err)
	}
	server.cmd.Stderr = server.cmd.Stdout

	if err = server.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start jackd: %w", err)
	}

	ready := make(chan bool, 1)

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			slog.Debug("jackd: " + line)

			if strings.Contains(line, "driver is running") {
				select {
				case ready <- true:
				default:
				}
			}
		}
	}()

	select {
	case <-ready:
		return nil
	case <-time.After(jackdStartTimeout):
		server.StopServer()
		return errors.New("timed out waiting for jackd to start")
	}
}

func (server *JackServer) StopServer() {
	if server == nil || server.cmd == nil || server.cmd.Process == nil {
		return
	}

	slog.Info("Stopping JACK server")
	server.cmd.Process.Kill()
	server.cmd.Wait()
	server.cmd = nil
}

func (server *JackServer) Connect() error {
	slog.Info("Connecting to JACK server")

	client, jackStatus := jack.ClientOpen(server.clientName, jack.NoStartServer)
	if jackStatus != 0 || client == nil {
		return fmt.Errorf("failed to open JACK client: %s", jack.StrError(jackStatus))
	}

	server.lock.Lock()
	server.jackClient = client
	server.lock.Unlock()

	slog.Info("JACK server connected")

	return nil
}

func (server *JackServer) Disconnect() {
	server.lock.Lock()
	defer server.lock.Unlock()

	if server.jackClient != nil {
		server.jackClient.Close()
		server.jackClient = nil
	}

	for _, port := range server.ports {
		port.connected = false
	}
}

func (server *JackServer) GetSampleRate() int {
	if server.jackClient == nil {
		return server.sampleRate
	}
	return int(server.jackClient.GetSampleRate())
}

func (server *JackServer) GetFramesPerPeriod() int {
	if server.jackClient == nil {
		return server.period
	}
	return int(server.jackClient.GetBufferSize())
}

// AddCapturePort declares an input that will read from the hardware capture
// port with the given 1-based number
func (server *JackServer) AddCapturePort(number int) *Port {
	port := newPort(In, fmt.Sprintf("in_%d", number), fmt.Sprintf("%s%d", server.portPrefix, number))
	server.ports = append(server.ports, port)

	return port
}

func (server *JackServer) GetInputPorts() []*Port {
	ports := make([]*Port, 0)

	for _, port := range server.ports {
		if port.portDirection == In {
			ports = append(ports, port)
		}
	}

	return ports
}

func (server *JackServer) RegisterPorts() {
	slog.Info("Registering audio ports...")

	for _, port := range server.GetInputPorts() {
		slog.Debug("Registered port " + port.myName)
		jackPort := server.jackClient.PortRegister(port.myName, jack.DEFAULT_AUDIO_TYPE, jack.PortIsInput, 0)
		port.setJackPort(jackPort)
	}
}

// Start wires the callbacks, activates the client and connects the ports
func (server *JackServer) Start() error {
	if server.jackClient == nil {
		return errors.New("JACK client is not connected")
	}

	server.RegisterPorts()

	jack.SetErrorFunction(func(message string) {
		slog.Error("JACK: " + message)
	})
	jack.SetInfoFunction(func(message string) {
		slog.Info("JACK: " + message)
	})

	if code := server.jackClient.SetProcessCallback(server.process); code != 0 {
		return fmt.Errorf("failed to set process callback: %s", jack.StrError(code))
	}

	server.jackClient.SetXRunCallback(server.xrun)
	server.jackClient.OnShutdown(server.shutdown)

	if code := server.jackClient.Activate(); code != 0 {
		return fmt.Errorf("failed to activate client: %s", jack.StrError(code))
	}

	server.ConnectPorts()

	return nil
}

func (server *JackServer) ConnectPorts() {
	slog.Info("Connecting audio ports")

	for _, port := range server.GetInputPorts() {
		inName := port.jackName
		outName := fmt.Sprintf("%s:%s", server.clientName, port.myName)

		if code := server.jackClient.Connect(inName, outName); code != 0 {
			slog.Error(fmt.Sprintf("Failed to connect port %s to %s: %s", inName, outName, jack.StrError(code)))
			continue
		}

		slog.Debug(fmt.Sprintf("Connected port %s to port %s", inName, outName))
		port.connected = true
	}
}

func (server *JackServer) process(nframes uint32) int {
	for _, port := range server.ports {
		if port.jackPort != nil {
			port.enqueue(nframes)
		}
	}

	return 0
}

func (server *JackServer) xrun() int {
	slog.Warn("JACK: xrun")

	for _, port := range server.ports {
		port.markOverflowed()
	}

	return 0
}

func (server *JackServer) shutdown() {
	slog.Info("JACK connection shutting down")

	server.lock.Lock()
	server.jackClient = nil
	server.lock.Unlock()

	for _, port := range server.ports {
		port.connected = false
	}
}
