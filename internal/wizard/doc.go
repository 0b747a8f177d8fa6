// ABOUTME: Package documentation for the agent-creation wizard
// ABOUTME: Steps, controllers, validation, and the publish transition

/*
Package wizard implements the multi-step agent creation flow.

The wizard has four steps in fixed order: sector, informations,
configuration, and recapitulatif. Each mounted step is driven by a
Controller bound to the shared draft store, the agent record service, and a
notification sink. The controller exposes the step actions:

  - Mount hydrates name and status from the backing record, at most once
    per controller regardless of re-renders.
  - Continue validates the step and advances. A validation failure returns
    a *ValidationError carrying the per-field result and writes nothing
    remote.
  - Previous steps back without validating.
  - SaveDraft persists with status forced to draft and leaves for the
    agent list, skipping validation entirely.
  - Publish denormalizes the complete draft into the record configuration,
    flips the record active, and resets the shared draft.

Validation is per step and purely required-field: the informations step
requires the establishment name and city, the configuration step requires
a phone number and a voice selection. Optional fields never block.

The recapitulatif step renders a derived RecapView. Closure dates, stored
as individual "YYYY-MM-DD" strings, are collapsed into contiguous display
ranges by CollapseClosureDates.

Remote failures surface as an error notification and abort the transition;
the draft keeps its local state so nothing the user typed is lost.
*/
package wizard
