// Package chat builds a conversational layer on top of the AgentHub
// runtime: a small message vocabulary (text, stop, handoff), termination
// conditions, a model-backed Assistant agent, and teams that drive
// participants in turns until a termination condition fires.
//
// Teams create their own runtime per Run, register each participant as an
// agent factory, and address speakers through runtime.Send. Every produced
// message is also published to the team's group topic so closure-style
// observers can stream or collect the conversation.
package chat
