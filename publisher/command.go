package main

import "strings"

type Op string

const (
	OpBuild    Op = "build"
	OpRunLocal Op = "run-local"
	OpPush     Op = "push"
)

const (
	_dockerBinary = "docker"

	// runLocalImage is fixed. It does not follow PublisherConfig.
	runLocalImage = "gcr.io/bonion/test-app"
	runLocalPorts = "8000:8000"
)

// Command is an argv handed straight to the OS, never to a shell.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// BuildCommand builds the current directory as cfg.ImageRef().
func BuildCommand(cfg PublisherConfig) Command {
	return Command{
		Name: _dockerBinary,
		Args: []string{"build", "-t", cfg.ImageRef(), "."},
	}
}

func RunLocalCommand() Command {
	return Command{
		Name: _dockerBinary,
		Args: []string{"run", "--publish", runLocalPorts, runLocalImage},
	}
}

func PushCommand(cfg PublisherConfig) Command {
	return Command{
		Name: _dockerBinary,
		Args: []string{"push", cfg.ImageRef()},
	}
}
