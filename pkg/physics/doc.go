// Package physics drives the force-directed layout of a topology.
//
// A [Simulation] integrates node velocities under a set of named forces and
// cools down over time. Each tick it:
//
//  1. moves alpha toward the alpha target by the decay rate
//  2. lets every force add to node velocities, scaled by alpha
//  3. damps velocities and moves unpinned nodes; pinned nodes snap to their
//     pin and lose their velocity
//
// Once alpha drops below the minimum the simulation goes idle until
// [Simulation.Restart] is called. Hosts call [Simulation.Step] once per frame;
// tests and batch layouts call [Simulation.Tick] directly.
//
// Three forces are provided: [ManyBody] repels every pair of nodes, [LinkForce]
// pulls linked nodes toward a rest distance, and [Collide] keeps node circles
// from overlapping. Forces hold references to the node set they were
// initialized with, so the node list and the link force must be re-seeded
// whenever the graph changes structurally.
package physics
